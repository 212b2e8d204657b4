package workspace

import (
	"github.com/goccy/go-yaml"

	"github.com/pantheon-run/pantheon/pkg/constants"
)

// CleanupPolicy governs when Workspace.CleanupTempFile actually unlinks a
// temp file (SPEC_FULL.md §3, §4.4, DESIGN NOTES).
type CleanupPolicy string

const (
	CleanupAlways    CleanupPolicy = "always"
	CleanupOnFailure CleanupPolicy = "on_failure"
	CleanupNever     CleanupPolicy = "never"
)

// ProjectConfig is the typed contents of a project's .pantheon_project
// marker file (SPEC_FULL.md §3). Unrecognized YAML keys are ignored rather
// than rejected: the marker file format is additive across versions.
type ProjectConfig struct {
	ActiveTeam       string        `yaml:"active_team"`
	ArtifactsRoot    string        `yaml:"artifacts_root"`
	LogLevel         string        `yaml:"log_level"`
	AuditEnabled     bool          `yaml:"audit_enabled"`
	AuditDirectory   string        `yaml:"audit_directory"`
	TempFileCleanup  CleanupPolicy `yaml:"temp_file_cleanup"`
}

// defaultProjectConfig is returned when the marker file is missing or
// fails to parse; every field gets a safe, inert default.
func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		ArtifactsRoot:   constants.DefaultArtifactsRoot,
		AuditDirectory:  "audit",
		TempFileCleanup: CleanupOnFailure,
	}
}

// loadProjectConfig parses raw YAML bytes into a ProjectConfig, filling in
// defaults for anything the document doesn't set. A parse error is treated
// the same as a missing file: defaults, not a fatal error — the project
// marker file's job is to anchor project discovery; if it can't be read as
// YAML the project still has a perfectly usable default configuration.
func loadProjectConfig(raw []byte) ProjectConfig {
	cfg := defaultProjectConfig()
	if len(raw) == 0 {
		return cfg
	}

	var parsed struct {
		ActiveTeam      string        `yaml:"active_team"`
		ArtifactsRoot   string        `yaml:"artifacts_root"`
		LogLevel        string        `yaml:"log_level"`
		AuditEnabled    bool          `yaml:"audit_enabled"`
		AuditDirectory  string        `yaml:"audit_directory"`
		TempFileCleanup CleanupPolicy `yaml:"temp_file_cleanup"`
	}
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return cfg
	}

	cfg.ActiveTeam = parsed.ActiveTeam
	if parsed.ArtifactsRoot != "" {
		cfg.ArtifactsRoot = parsed.ArtifactsRoot
	}
	cfg.LogLevel = parsed.LogLevel
	cfg.AuditEnabled = parsed.AuditEnabled
	if parsed.AuditDirectory != "" {
		cfg.AuditDirectory = parsed.AuditDirectory
	}
	switch parsed.TempFileCleanup {
	case CleanupAlways, CleanupOnFailure, CleanupNever:
		cfg.TempFileCleanup = parsed.TempFileCleanup
	}

	return cfg
}
