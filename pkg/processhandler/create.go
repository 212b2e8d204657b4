package processhandler

import (
	"github.com/pantheon-run/pantheon/pkg/artifactengine"
	"github.com/pantheon-run/pantheon/pkg/pathvalue"
)

// ExecuteCreateProcess runs the CREATE operation per spec.md §4.7.
func (h *Handler) ExecuteCreateProcess(process string, inputParams, frameworkParams map[string]any, templates map[string]string) (CreateResult, error) {
	schema, err := h.compileProcessSchema(process)
	if err != nil {
		return CreateResult{}, err
	}
	if err := artifactengine.Validate(inputParams, schema); err != nil {
		return CreateResult{}, err
	}

	content, target, err := h.engine.GenerateArtifact(process, templates, inputParams, frameworkParams)
	if err != nil {
		return CreateResult{}, err
	}

	saved, err := h.ws.SaveArtifact(content, target)
	if err != nil {
		return CreateResult{}, err
	}

	created := []pathvalue.PathValue{saved}

	if h.ws.HasJSONLTemplates(process) {
		if jsonlPath, err := h.tryAppendJSONLRecord(process, templates, inputParams, frameworkParams); err != nil {
			log.Printf("jsonl sidecar write failed for process=%s: %v", process, err)
		} else {
			created = append(created, jsonlPath)
		}
	}

	return CreateResult{Success: true, Created: created}, nil
}

func (h *Handler) tryAppendJSONLRecord(process string, templates map[string]string, inputParams, frameworkParams map[string]any) (pathvalue.PathValue, error) {
	jsonlPath, err := h.engine.GenerateJSONLPath(process, templates, inputParams, frameworkParams)
	if err != nil {
		return pathvalue.PathValue{}, err
	}

	record := make(map[string]any, len(inputParams)+1)
	for k, v := range inputParams {
		record[k] = v
	}
	record["timestamp"] = frameworkParams["timestamp"]

	return h.ws.AppendJSONLEntry(record, jsonlPath)
}

// compileProcessSchema reads and compiles process's schema.jsonnet against
// the active team profile bundle.
func (h *Handler) compileProcessSchema(process string) (map[string]any, error) {
	schemaContent, err := h.ws.GetProcessSchema(process)
	if err != nil {
		return nil, err
	}
	profileBundle, err := h.compiledTeamProfile()
	if err != nil {
		return nil, err
	}
	return artifactengine.CompileSchema(schemaContent, profileBundle, process, false)
}
