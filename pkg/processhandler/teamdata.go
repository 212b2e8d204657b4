package processhandler

import (
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/pantheon-run/pantheon/pkg/artifactengine"
	"github.com/pantheon-run/pantheon/pkg/perr"
)

// GetTeamData loads team-data.yaml, renders any template-valued strings
// against {actor: actor}, and — when dotPath is non-empty — narrows the
// result to that nested key, per spec.md §4.7.
func (h *Handler) GetTeamData(actor string, dotPath string) (any, error) {
	raw, err := h.ws.GetTeamData()
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
		return nil, perr.Wrap(perr.KindInvalidConfig, "team-data.yaml is not valid YAML", err)
	}
	if data == nil {
		data = map[string]any{}
	}

	rendered, err := renderStrings(data, actor)
	if err != nil {
		return nil, err
	}

	if dotPath == "" {
		return rendered, nil
	}
	value, ok := navigateDotPath(rendered, dotPath)
	if !ok {
		return nil, perr.New(perr.KindNotFound, "team data has no key at path "+dotPath).WithPath(dotPath)
	}
	return value, nil
}

func renderStrings(value any, actor string) (any, error) {
	switch v := value.(type) {
	case string:
		return artifactengine.RenderTemplate(v, map[string]any{"actor": actor}, "team-data")
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, nested := range v {
			rendered, err := renderStrings(nested, actor)
			if err != nil {
				return nil, err
			}
			out[k] = rendered
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, nested := range v {
			rendered, err := renderStrings(nested, actor)
			if err != nil {
				return nil, err
			}
			out[i] = rendered
		}
		return out, nil
	default:
		return value, nil
	}
}

func navigateDotPath(value any, dotPath string) (any, bool) {
	current := value
	for _, segment := range strings.Split(dotPath, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := obj[segment]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}
