package constants

import "testing"

func TestDefaultArtifactsRootNonEmpty(t *testing.T) {
	if DefaultArtifactsRoot == "" {
		t.Error("DefaultArtifactsRoot must not be empty")
	}
}

func TestProjectMarkerFileIsDotfile(t *testing.T) {
	if ProjectMarkerFile[0] != '.' {
		t.Errorf("ProjectMarkerFile = %q, want a dotfile", ProjectMarkerFile)
	}
}
