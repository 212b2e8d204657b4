package artifactengine

// CreateTemplateContext merges input_params, an input_data echo, framework
// params, and — for CREATE only, when a process is named in framework
// params — a best-effort pantheon_artifact_id, per spec.md §4.5.
func (e *Engine) CreateTemplateContext(inputParams map[string]any, frameworkParams map[string]any, opKind OperationKind) map[string]any {
	ctx := make(map[string]any, len(inputParams)+len(frameworkParams)+2)
	for k, v := range inputParams {
		ctx[k] = v
	}
	ctx["input_data"] = inputParams
	for k, v := range frameworkParams {
		ctx[k] = v
	}

	if opKind != OpCreate {
		return ctx
	}
	process, _ := frameworkParams["pantheon_process"].(string)
	if process == "" {
		return ctx
	}

	next, err := e.ids.GetNext(e.ws.ActiveTeam(), process)
	if err != nil {
		log.Printf("pantheon_artifact_id allocation failed for process=%s: %v", process, err)
		ctx["pantheon_artifact_id"] = nil
		return ctx
	}
	ctx["pantheon_artifact_id"] = next
	return ctx
}
