package artifactengine

import (
	"regexp"

	"github.com/pantheon-run/pantheon/pkg/pathvalue"
	"github.com/pantheon-run/pantheon/pkg/perr"
)

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// GenerateArtifact renders the CREATE triple (content, placement, naming)
// per spec.md §4.5: content goes through the artifact-template environment
// (semantic-URI includes enabled), placement/naming through the basic
// environment, and the two path pieces join into the artifact's PathValue.
func (e *Engine) GenerateArtifact(process string, templates map[string]string, inputParams, frameworkParams map[string]any) (string, pathvalue.PathValue, error) {
	content, placement, naming, err := requireCreateKeys(templates)
	if err != nil {
		return "", pathvalue.PathValue{}, err
	}

	ctx := e.CreateTemplateContext(inputParams, frameworkParams, OpCreate)

	env := NewArtifactTemplateEnvironment(e.ws, e.ws.GetProcessDirectory(process))
	renderedContent, err := RenderArtifactTemplate(content, ctx, env, process+"/content")
	if err != nil {
		return "", pathvalue.PathValue{}, err
	}
	renderedContent = excessNewlines.ReplaceAllString(renderedContent, "\n\n")

	renderedPlacement, err := RenderTemplate(placement, ctx, process+"/placement")
	if err != nil {
		return "", pathvalue.PathValue{}, err
	}
	renderedNaming, err := RenderTemplate(naming, ctx, process+"/naming")
	if err != nil {
		return "", pathvalue.PathValue{}, err
	}

	target, err := composeTargetPath(renderedPlacement, renderedNaming)
	if err != nil {
		return "", pathvalue.PathValue{}, err
	}
	return renderedContent, target, nil
}

// GenerateJSONLPath mirrors GenerateArtifact's placement/naming step for
// the jsonl_placement/jsonl_naming keys, producing only a PathValue.
func (e *Engine) GenerateJSONLPath(process string, templates map[string]string, inputParams, frameworkParams map[string]any) (pathvalue.PathValue, error) {
	placement, ok := templates["jsonl_placement"]
	if !ok {
		return pathvalue.PathValue{}, perr.New(perr.KindInvalidTemplateKey, "missing jsonl_placement template").WithProcess(process)
	}
	naming, ok := templates["jsonl_naming"]
	if !ok {
		return pathvalue.PathValue{}, perr.New(perr.KindInvalidTemplateKey, "missing jsonl_naming template").WithProcess(process)
	}

	ctx := e.CreateTemplateContext(inputParams, frameworkParams, OpCreate)

	renderedPlacement, err := RenderTemplate(placement, ctx, process+"/jsonl_placement")
	if err != nil {
		return pathvalue.PathValue{}, err
	}
	renderedNaming, err := RenderTemplate(naming, ctx, process+"/jsonl_naming")
	if err != nil {
		return pathvalue.PathValue{}, err
	}

	return composeTargetPath(renderedPlacement, renderedNaming)
}

func requireCreateKeys(templates map[string]string) (content, placement, naming string, err error) {
	content, hasContent := templates["content"]
	placement, hasPlacement := templates["placement"]
	naming, hasNaming := templates["naming"]
	if !hasContent || !hasPlacement || !hasNaming {
		return "", "", "", perr.New(perr.KindInvalidTemplateKey, "CREATE requires content, placement, and naming templates")
	}
	return content, placement, naming, nil
}

// composeTargetPath joins placement and naming into one PathValue, treating
// an empty (post-render) placement as "current directory".
func composeTargetPath(placement, naming string) (pathvalue.PathValue, error) {
	if placement == "" {
		return pathvalue.New(naming)
	}
	base, err := pathvalue.New(placement)
	if err != nil {
		return pathvalue.PathValue{}, perr.Wrap(perr.KindBadPath, "rendered placement is not a valid path", err)
	}
	joined, err := base.Joinpath(naming)
	if err != nil {
		return pathvalue.PathValue{}, perr.Wrap(perr.KindBadPath, "rendered naming is not a valid path", err)
	}
	return joined, nil
}
