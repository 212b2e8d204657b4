// Package processhandler implements ProcessHandler (SPEC_FULL.md §4.7):
// the top-level orchestrator wiring Workspace and ArtifactEngine together
// for the four operation types, managing framework-provided template
// variables and producing structured results for a caller (audit/CLI
// integration sits outside this package, same as the teacher keeps
// pkg/workflow's compiler independent of pkg/cli).
package processhandler

import (
	"github.com/pantheon-run/pantheon/pkg/artifactengine"
	"github.com/pantheon-run/pantheon/pkg/logger"
	"github.com/pantheon-run/pantheon/pkg/pathvalue"
	"github.com/pantheon-run/pantheon/pkg/workspace"
)

var log = logger.New("processhandler")

// Handler is ProcessHandler.
type Handler struct {
	ws     *workspace.Workspace
	engine *artifactengine.Engine
}

// New constructs a Handler over an already-wired Workspace and Engine (the
// Engine's SectionsResolver/BasicRenderer injection into ws happens at
// construction time in the caller, e.g. cmd/pantheon, to avoid
// pkg/workspace importing pkg/artifactengine).
func New(ws *workspace.Workspace, engine *artifactengine.Engine) *Handler {
	return &Handler{ws: ws, engine: engine}
}

// CreateResult is the structured outcome of ExecuteCreateProcess.
type CreateResult struct {
	Success bool
	Created []pathvalue.PathValue
}

// RetrieveResult is the structured outcome of ExecuteRetrieveProcess.
type RetrieveResult struct {
	Found    bool
	Sections map[string]string
}

// UpdateResult is the structured outcome of ExecuteUpdateProcess.
type UpdateResult struct {
	Success bool
	Updated pathvalue.PathValue
}

// BuildResult is the structured outcome of ExecuteBuildProcess.
type BuildResult struct {
	Success bool
	Created []pathvalue.PathValue
}
