// Package workspace implements Workspace (SPEC_FULL.md §4.4): the facade
// over FileSystem that enforces the sandbox, resolves convention-based
// asset paths, implements the semantic-URI resolver and scaffolder, and is
// the only component that ever unwraps a pathvalue.PathValue for I/O.
package workspace

import (
	"path/filepath"
	"strings"

	"github.com/pantheon-run/pantheon/pkg/constants"
	"github.com/pantheon-run/pantheon/pkg/filesystem"
	"github.com/goccy/go-yaml"

	"github.com/pantheon-run/pantheon/pkg/logger"
	"github.com/pantheon-run/pantheon/pkg/pathsafety"
	"github.com/pantheon-run/pantheon/pkg/pathvalue"
	"github.com/pantheon-run/pantheon/pkg/perr"
)

// unwrapToken is the only type implementing pathvalue's private unwrapper
// interface; only this package can construct one, so only this package can
// call pathvalue.UnwrapForWorkspace.
type unwrapToken struct{}

func (unwrapToken) privatePantheonWorkspaceUnwrapToken() {}

// Workspace is the facade every other core component depends on for I/O.
type Workspace struct {
	projectRootAbs    string
	artifactsRootAbs  string
	artifactsRootName string // the relative root, e.g. "artifacts"
	fs                filesystem.FileSystem
	config            ProjectConfig
	log               *logger.Logger
	sectionsResolver  SectionsResolver
	basicRenderer     BasicRenderer
}

// New constructs a Workspace. artifactsRoot overrides the project config's
// artifacts_root when non-empty; otherwise the config's value (or its
// default) is used. Both projectRoot and the resolved artifacts root are
// immediately resolved to absolute native paths and never change again.
func New(projectRoot string, artifactsRoot string, fs filesystem.FileSystem) (*Workspace, error) {
	return NewWithLogger(projectRoot, artifactsRoot, fs, logger.New("workspace"))
}

// NewWithLogger is New with an injected logger, per DESIGN NOTES' guidance
// to avoid hidden module-level logger state in components with
// constructors (unlike pkg/logger itself, which every package instantiates
// at package scope the way the teacher does).
func NewWithLogger(projectRoot string, artifactsRoot string, fs filesystem.FileSystem, log *logger.Logger) (*Workspace, error) {
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, perr.Wrap(perr.KindBadPath, "cannot resolve project root", err).WithPath(projectRoot)
	}

	markerPath := filepath.Join(absRoot, constants.ProjectMarkerFile)
	var raw []byte
	if content, err := fs.ReadText(markerPath); err == nil {
		raw = []byte(content)
	}
	config := loadProjectConfig(raw)

	rootName := artifactsRoot
	if rootName == "" {
		rootName = config.ArtifactsRoot
	}
	if rootName == "" {
		rootName = constants.DefaultArtifactsRoot
	}

	absArtifacts, err := filepath.Abs(filepath.Join(absRoot, rootName))
	if err != nil {
		return nil, perr.Wrap(perr.KindBadPath, "cannot resolve artifacts root", err).WithPath(rootName)
	}

	return &Workspace{
		projectRootAbs:    absRoot,
		artifactsRootAbs:  absArtifacts,
		artifactsRootName: rootName,
		fs:                fs,
		config:            config,
		log:               log,
	}, nil
}

// Config returns the loaded ProjectConfig.
func (w *Workspace) Config() ProjectConfig { return w.config }

// ActiveTeam returns the configured active team, or "" if unset.
func (w *Workspace) ActiveTeam() string { return w.config.ActiveTeam }

func (w *Workspace) unwrap(p pathvalue.PathValue) string {
	return pathvalue.UnwrapForWorkspace(p, unwrapToken{})
}

// DiscoverProjectRoot walks upward from startPath looking for
// constants.ProjectMarkerFile, returning the directory containing it, or
// ("", false) if the filesystem root is reached without finding one.
func DiscoverProjectRoot(fs filesystem.FileSystem, startPath string) (string, bool) {
	dir, err := filepath.Abs(startPath)
	if err != nil {
		return "", false
	}
	for {
		if fs.Exists(filepath.Join(dir, constants.ProjectMarkerFile)) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// teamPackageDir returns the absolute directory of a team package. An empty
// team name resolves to the active team.
func (w *Workspace) teamPackageDir(team string) string {
	if team == "" {
		team = w.config.ActiveTeam
	}
	return filepath.Join(w.projectRootAbs, constants.TeamsDirectory, team)
}

// GetTeamPackagePath returns pantheon-teams/<team-or-active> as a PathValue
// relative to the project root.
func (w *Workspace) GetTeamPackagePath(team string) (pathvalue.PathValue, error) {
	if team == "" {
		team = w.config.ActiveTeam
	}
	return pathvalue.New(constants.TeamsDirectory, team)
}

func (w *Workspace) processDir(process string) string {
	return filepath.Join(w.teamPackageDir(""), constants.ProcessesDirectory, process)
}

// GetProcessDirectory returns the native directory of a process, for use as
// a DSL-T loader base path.
func (w *Workspace) GetProcessDirectory(process string) string {
	return w.processDir(process)
}

func (w *Workspace) artifactSubPath(process string, name string) string {
	return filepath.Join(w.processDir(process), constants.ArtifactSubdirectory, name)
}

// readRaw reads a file at an absolute native path, wrapping filesystem
// errors but adding no DSL-C preprocessing.
func (w *Workspace) readRaw(path string) (string, error) {
	return w.fs.ReadText(path)
}

// readPreprocessed reads a file and runs the import preprocessor over it
// (SPEC_FULL.md / spec.md §4.4.1) before returning its contents.
func (w *Workspace) readPreprocessed(path string) (string, error) {
	content, err := w.fs.ReadText(path)
	if err != nil {
		return "", err
	}
	return w.preprocessImports(content, path, newImportChain())
}

// --- Content retrieval (spec.md §4.4, grouped by process asset) ---

func (w *Workspace) GetProcessSchema(process string) (string, error) {
	return w.readPreprocessed(w.artifactSubPathless(process, constants.SchemaFile))
}

func (w *Workspace) GetProcessSchemaPath(process string) string {
	return w.artifactSubPathless(process, constants.SchemaFile)
}

// artifactSubPathless resolves a file directly under the process directory
// (not under artifact/), e.g. schema.jsonnet, routine.md, permissions.jsonnet.
func (w *Workspace) artifactSubPathless(process, name string) string {
	return filepath.Join(w.processDir(process), name)
}

func (w *Workspace) GetSectionSchema(process, sectionSubPath string) (string, error) {
	if err := validateSubPath(sectionSubPath); err != nil {
		return "", err
	}
	return w.readPreprocessed(w.artifactSubPath(process, sectionSubPath+".schema.jsonnet"))
}

func (w *Workspace) GetArtifactSectionTemplate(process, sectionSubPath string) (string, error) {
	if err := validateSubPath(sectionSubPath); err != nil {
		return "", err
	}
	return w.readRaw(w.artifactSubPath(process, sectionSubPath+".md"))
}

func (w *Workspace) GetProcessRoutine(process string) (string, error) {
	return w.readRaw(w.artifactSubPathless(process, constants.RoutineFile))
}

func (w *Workspace) CheckProcessExists(process string) error {
	if !w.fs.Exists(w.artifactSubPathless(process, constants.RoutineFile)) {
		return perr.New(perr.KindNotFound, "process does not exist").WithProcess(process)
	}
	return nil
}

func (w *Workspace) HasProcessRedirect(process string) bool {
	return w.fs.Exists(w.artifactSubPathless(process, constants.RedirectFile))
}

func (w *Workspace) GetProcessRedirect(process string) (string, error) {
	content, err := w.readRaw(w.artifactSubPathless(process, constants.RedirectFile))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (w *Workspace) GetArtifactParser(process string) (string, error) {
	return w.readPreprocessed(w.artifactSubPath(process, constants.ParserFile))
}

func (w *Workspace) HasArtifactParser(process string) bool {
	return w.fs.Exists(w.artifactSubPath(process, constants.ParserFile))
}

func (w *Workspace) GetArtifactLocator(process string) (string, error) {
	return w.readPreprocessed(w.artifactSubPath(process, constants.LocatorFile))
}

func (w *Workspace) GetArtifactSectionMarkers(process string) (string, error) {
	return w.readPreprocessed(w.artifactSubPath(process, constants.SectionMarkersFile))
}

func (w *Workspace) GetArtifactContentTemplate(process string) (string, error) {
	return w.readRaw(w.artifactSubPath(process, constants.ContentTemplate))
}

func (w *Workspace) GetArtifactDirectoryTemplate(process string) (string, error) {
	return w.readRaw(w.artifactSubPath(process, constants.PlacementTemplate))
}

func (w *Workspace) GetArtifactFilenameTemplate(process string) (string, error) {
	return w.readRaw(w.artifactSubPath(process, constants.NamingTemplate))
}

func (w *Workspace) GetArtifactTargetSection(process string) (string, error) {
	return w.readPreprocessed(w.artifactSubPath(process, constants.TargetFile))
}

func (w *Workspace) GetArtifactPatchTemplate(process string) (string, error) {
	return w.readRaw(w.artifactSubPath(process, constants.PatchTemplate))
}

func (w *Workspace) HasJSONLTemplates(process string) bool {
	return w.fs.Exists(w.artifactSubPath(process, constants.JSONLPlacementFile)) &&
		w.fs.Exists(w.artifactSubPath(process, constants.JSONLNamingFile))
}

func (w *Workspace) GetArtifactJSONLDirectoryTemplate(process string) (string, error) {
	return w.readRaw(w.artifactSubPath(process, constants.JSONLPlacementFile))
}

func (w *Workspace) GetArtifactJSONLFilenameTemplate(process string) (string, error) {
	return w.readRaw(w.artifactSubPath(process, constants.JSONLNamingFile))
}

func (w *Workspace) HasBuildSchema(process string) bool {
	return w.fs.Exists(w.artifactSubPathless(process, constants.BuildSchemaFile))
}

func (w *Workspace) GetBuildSchema(process string) (string, error) {
	return w.readPreprocessed(w.artifactSubPathless(process, constants.BuildSchemaFile))
}

func (w *Workspace) GetProcessDirectoryTemplate(process string) (string, error) {
	return w.readRaw(w.artifactSubPathless(process, constants.ProcessDirTemplate))
}

func (w *Workspace) GetTeamProfile() (string, error) {
	return w.readRaw(filepath.Join(w.teamPackageDir(""), constants.TeamProfileFile))
}

func (w *Workspace) GetPermissions(process string) (string, error) {
	return w.readPreprocessed(w.artifactSubPathless(process, constants.PermissionsFile))
}

// GetConfig loads <team>/config/[<scope>/]<name>.yaml, falling back to the
// unscoped path and finally to an empty map rather than an error — per
// original_source/pantheon/workspace.py.
func (w *Workspace) GetConfig(name string, scope string) (map[string]any, error) {
	if err := validateSubPath(name); err != nil {
		return nil, err
	}
	team := w.teamPackageDir("")
	if scope != "" {
		if err := validateSubPath(scope); err != nil {
			return nil, err
		}
		scoped := filepath.Join(team, "config", scope, name+".yaml")
		if w.fs.Exists(scoped) {
			return w.readYAMLMap(scoped)
		}
	}
	global := filepath.Join(team, "config", name+".yaml")
	if w.fs.Exists(global) {
		return w.readYAMLMap(global)
	}
	return map[string]any{}, nil
}

func (w *Workspace) GetTeamData() (string, error) {
	return w.readRaw(filepath.Join(w.teamPackageDir(""), constants.TeamDataFile))
}

func validateSubPath(p string) error {
	return pathsafety.ValidateSectionPath(p)
}

func (w *Workspace) readYAMLMap(path string) (map[string]any, error) {
	content, err := w.fs.ReadText(path)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal([]byte(content), &m); err != nil {
		return nil, perr.Wrap(perr.KindInvalidConfig, "invalid YAML", err).WithPath(path)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}
