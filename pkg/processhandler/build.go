package processhandler

import (
	"github.com/pantheon-run/pantheon/pkg/artifactengine"
	"github.com/pantheon-run/pantheon/pkg/pathvalue"
	"github.com/pantheon-run/pantheon/pkg/perr"
)

// ExecuteBuildProcess runs the BUILD meta-operation per spec.md §4.7:
// process names the builder process whose build-schema.jsonnet validates
// buildSpec; buildSpec then carries the target operation, the bundle
// root, the new process's rendered file contents, and the variables the
// default routine template (if overlaid) renders against.
func (h *Handler) ExecuteBuildProcess(process string, buildSpec map[string]any) (BuildResult, error) {
	if !h.ws.HasBuildSchema(process) {
		return BuildResult{}, perr.New(perr.KindNotFound, "no build-schema.jsonnet for process").WithProcess(process)
	}

	schemaContent, err := h.ws.GetBuildSchema(process)
	if err != nil {
		return BuildResult{}, err
	}
	profileBundle, err := h.compiledTeamProfile()
	if err != nil {
		return BuildResult{}, err
	}
	schema, err := artifactengine.CompileSchema(schemaContent, profileBundle, process, false)
	if err != nil {
		return BuildResult{}, err
	}
	if err := artifactengine.Validate(buildSpec, schema); err != nil {
		return BuildResult{}, err
	}

	targetProcess, _ := buildSpec["process"].(string)
	operation, _ := buildSpec["operation"].(string)
	bundleRootStr, _ := buildSpec["bundle_root"].(string)
	files := stringMapOf(buildSpec["files"])
	buildVars, _ := buildSpec["build_vars"].(map[string]any)

	bundleRoot, err := pathvalue.New(bundleRootStr)
	if err != nil {
		return BuildResult{}, perr.Wrap(perr.KindBadPath, "invalid bundle_root", err).WithPath(bundleRootStr)
	}

	var created []pathvalue.PathValue
	switch operation {
	case "CREATE":
		created, err = h.ws.ScaffoldCreateProcess(bundleRoot, targetProcess, files, buildVars)
	case "RETRIEVE":
		created, err = h.ws.ScaffoldGetProcess(bundleRoot, targetProcess, files, buildVars)
	case "UPDATE":
		created, err = h.ws.ScaffoldUpdateProcess(bundleRoot, targetProcess, files, buildVars)
	default:
		return BuildResult{}, perr.New(perr.KindInvalidConfig, "build_spec.operation must be CREATE, RETRIEVE, or UPDATE").WithField(operation)
	}
	if err != nil {
		return BuildResult{}, err
	}

	return BuildResult{Success: true, Created: created}, nil
}

func stringMapOf(raw any) map[string]string {
	obj, ok := raw.(map[string]any)
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
