// Package constants holds the small set of file and directory names that
// the rest of the core treats as fixed convention rather than configuration.
package constants

// ProjectMarkerFile is the YAML file at a project root that anchors
// Workspace.DiscoverProjectRoot and carries ProjectConfig.
const ProjectMarkerFile = ".pantheon_project"

// DefaultArtifactsRoot is used when ProjectConfig.ArtifactsRoot is empty.
const DefaultArtifactsRoot = "artifacts"

// TeamsDirectory is the directory under the project root holding one
// subdirectory per team package.
const TeamsDirectory = "pantheon-teams"

// ProcessesDirectory is the directory under a team package holding one
// subdirectory per process.
const ProcessesDirectory = "processes"

// ArtifactSubdirectory is the per-process directory holding
// content/placement/naming/locator/parser/sections/target/patch files.
const ArtifactSubdirectory = "artifact"

// IdLedgerFile is the JSON sidecar at the root of the artifact sandbox
// holding the per-team, per-process monotonic id counter.
const IdLedgerFile = ".artifact_id.json"

// TempSubdirectory is the sandboxed subtree reserved for Workspace.CreateTempfile.
const TempSubdirectory = "temp"

// TeamProfileFile and TeamDataFile are the two YAML documents every team
// package carries alongside its processes.
const (
	TeamProfileFile = "team-profile.yaml"
	TeamDataFile    = "team-data.yaml"
)

// Canonical per-process filenames (see SPEC_FULL.md §6 External Interfaces).
const (
	RoutineFile         = "routine.md"
	RedirectFile        = "redirect.md"
	SchemaFile          = "schema.jsonnet"
	PermissionsFile     = "permissions.jsonnet"
	BuildSchemaFile     = "build-schema.jsonnet"
	ProcessDirTemplate  = "directory.jinja"
	ContentTemplate     = "content.md"
	PlacementTemplate   = "placement.jinja"
	NamingTemplate      = "naming.jinja"
	LocatorFile         = "locator.jsonnet"
	ParserFile          = "parser.jsonnet"
	SectionMarkersFile  = "sections.jsonnet"
	TargetFile          = "target.jsonnet"
	PatchTemplate       = "patch.md"
	JSONLPlacementFile  = "jsonl_placement.jinja"
	JSONLNamingFile     = "jsonl_naming.jinja"
)

// AuditFileSuffix names the daily audit sidecar: YYYY-MM-DD + this suffix.
const AuditFileSuffix = "_cli.jsonl"

// PlaceholderDefaultName is the key used for single-section artifacts
// whose sections markers file only declares a placeholder (shape (a) in
// spec.md's SectionMarkers entity).
const PlaceholderDefaultName = "content"
