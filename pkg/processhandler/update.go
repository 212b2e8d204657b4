package processhandler

import (
	"github.com/pantheon-run/pantheon/pkg/artifactengine"
	"github.com/pantheon-run/pantheon/pkg/perr"
)

// ExecuteUpdateProcess runs the UPDATE operation per spec.md §4.7: locate,
// validate the patch inputs against the process schema, render and splice
// the patch template into the located artifact, then overwrite it.
func (h *Handler) ExecuteUpdateProcess(process string, artifactID string, patchInputs, frameworkParams map[string]any) (UpdateResult, error) {
	located, err := h.engine.FindArtifact(process, artifactID)
	if err != nil {
		return UpdateResult{}, err
	}
	if located == nil {
		return UpdateResult{}, perr.New(perr.KindNotFound, "no artifact matched for update").WithProcess(process)
	}

	schema, err := h.compileProcessSchema(process)
	if err != nil {
		return UpdateResult{}, err
	}
	if err := artifactengine.Validate(patchInputs, schema); err != nil {
		return UpdateResult{}, err
	}

	currentContent, err := h.ws.ReadArtifactFile(*located)
	if err != nil {
		return UpdateResult{}, err
	}

	targetContent, err := h.ws.GetArtifactTargetSection(process)
	if err != nil {
		return UpdateResult{}, err
	}
	patchTemplate, err := h.ws.GetArtifactPatchTemplate(process)
	if err != nil {
		return UpdateResult{}, err
	}

	spliced, err := h.engine.SpliceUpdate(located.String(), currentContent, targetContent, patchTemplate, patchInputs, frameworkParams)
	if err != nil {
		return UpdateResult{}, err
	}

	saved, err := h.ws.SaveArtifact(spliced, *located)
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Success: true, Updated: saved}, nil
}
