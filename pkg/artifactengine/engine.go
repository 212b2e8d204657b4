package artifactengine

import (
	"github.com/pantheon-run/pantheon/pkg/idcounter"
	"github.com/pantheon-run/pantheon/pkg/workspace"
)

// Engine is ArtifactEngine (spec.md §4.5): pure computation over content
// read through Workspace. It never writes; SaveArtifact/AppendJSONLEntry
// calls happen one layer up, in pkg/processhandler.
type Engine struct {
	ws  *workspace.Workspace
	ids *idcounter.Counter
}

// New constructs an Engine. ids is typically an idcounter.Counter backed by
// ws's own ReadArtifactID/SaveArtifactID methods (ws satisfies
// idcounter.Ledger).
func New(ws *workspace.Workspace, ids *idcounter.Counter) *Engine {
	return &Engine{ws: ws, ids: ids}
}
