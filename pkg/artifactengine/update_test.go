package artifactengine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpliceUpdateFlatShapeReplacesMarkedRegion(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	current := "before<!--S-->old<!--/S-->after"
	target := `{section_start: "<!--S-->", section_end: "<!--/S-->"}`
	patch := "{{ note }}"

	out, err := engine.SpliceUpdate("tickets/T-1.md", current, target, patch, map[string]any{"note": "new"}, nil)
	require.NoError(t, err)
	require.Equal(t, "before<!--S-->new<!--/S-->after", out)
}

func TestSpliceUpdateNestedShapePatchesEachSection(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	current := "x<!--A-->a<!--/A-->y<!--B-->b<!--/B-->z"
	target := `{sections: {a: {start: "<!--A-->", end: "<!--/A-->"}, b: {start: "<!--B-->", end: "<!--/B-->"}}}`
	patch := "{{ note }}"

	out, err := engine.SpliceUpdate("tickets/T-1.md", current, target, patch, map[string]any{"note": "Z"}, nil)
	require.NoError(t, err)
	require.Equal(t, "x<!--A-->Z<!--/A-->y<!--B-->Z<!--/B-->z", out)
}

func TestSpliceUpdateMissingMarkersReturnsMissingSectionError(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	current := "no markers here"
	target := `{section_start: "<!--S-->", section_end: "<!--/S-->"}`

	_, err := engine.SpliceUpdate("tickets/T-1.md", current, target, "x", nil, nil)
	require.Error(t, err)
}

func TestSpliceBetweenPreservesMarkersAndSurroundingText(t *testing.T) {
	out, ok := spliceBetween("before[old]after", "[", "]", "new")
	require.True(t, ok)
	require.Equal(t, "before[new]after", out)
}
