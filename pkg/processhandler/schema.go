package processhandler

import (
	"github.com/goccy/go-yaml"

	"github.com/pantheon-run/pantheon/pkg/perr"
)

// compiledTeamProfile loads and parses the active team's team-profile.yaml,
// tolerating a project with none configured (GetTeamProfile's readRaw error
// degrades to an empty profile bundle, per original_source's "missing file
// means no profile" convention carried elsewhere in Workspace).
func (h *Handler) compiledTeamProfile() (map[string]any, error) {
	content, err := h.ws.GetTeamProfile()
	if err != nil {
		return map[string]any{}, nil
	}
	var bundle map[string]any
	if err := yaml.Unmarshal([]byte(content), &bundle); err != nil {
		return nil, perr.Wrap(perr.KindInvalidConfig, "team-profile.yaml is not valid YAML", err)
	}
	if bundle == nil {
		bundle = map[string]any{}
	}
	return bundle, nil
}
