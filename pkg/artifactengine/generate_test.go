package artifactengine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateArtifactRendersContentPlacementAndNaming(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	templates := map[string]string{
		"content":   "# {{ title }}\n\n\n\nbody\n",
		"placement": "tickets",
		"naming":    "{{ pantheon_artifact_id }}.md",
	}
	inputParams := map[string]any{"title": "Fix bug"}
	frameworkParams := map[string]any{"pantheon_process": "create-ticket"}

	content, target, err := engine.GenerateArtifact("create-ticket", templates, inputParams, frameworkParams)
	require.NoError(t, err)
	require.Equal(t, "# Fix bug\n\nbody\n", content)
	require.Equal(t, "tickets/1.md", target.String())
}

func TestGenerateArtifactRequiresAllThreeKeys(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	_, _, err := engine.GenerateArtifact("create-ticket", map[string]string{"content": "x"}, nil, nil)
	require.Error(t, err)
}

func TestGenerateJSONLPathRendersPlacementAndNaming(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	templates := map[string]string{
		"jsonl_placement": "events",
		"jsonl_naming":    "{{ pantheon_process }}.jsonl",
	}
	target, err := engine.GenerateJSONLPath("create-ticket", templates, nil, map[string]any{"pantheon_process": "create-ticket"})
	require.NoError(t, err)
	require.Equal(t, "events/create-ticket.jsonl", target.String())
}

func TestGenerateJSONLPathRequiresBothKeys(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	_, err := engine.GenerateJSONLPath("create-ticket", map[string]string{"jsonl_placement": "x"}, nil, nil)
	require.Error(t, err)
}

func TestComposeTargetPathTreatsEmptyPlacementAsCurrentDirectory(t *testing.T) {
	p, err := composeTargetPath("", "T-1.md")
	require.NoError(t, err)
	require.Equal(t, "T-1.md", p.String())
}
