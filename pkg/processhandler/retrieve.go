package processhandler

// ExecuteRetrieveProcess runs the RETRIEVE operation per spec.md §4.7:
// locate the artifact, then extract every section get_artifact_sections
// recognizes (an empty sectionNames list means "all sections" for the
// nested-marker shape).
func (h *Handler) ExecuteRetrieveProcess(process string, artifactID string, sectionNames []string) (RetrieveResult, error) {
	located, err := h.engine.FindArtifact(process, artifactID)
	if err != nil {
		return RetrieveResult{}, err
	}
	if located == nil {
		return RetrieveResult{Found: false}, nil
	}

	sections := h.engine.GetArtifactSections(process, *located, sectionNames)
	return RetrieveResult{Found: true, Sections: sections}, nil
}
