package artifactengine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateTemplateContextMergesInputAndFrameworkParams(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := engine.CreateTemplateContext(
		map[string]any{"title": "Fix bug"},
		map[string]any{"pantheon_actor": "qa"},
		OpRetrieve,
	)
	require.Equal(t, "Fix bug", ctx["title"])
	require.Equal(t, "qa", ctx["pantheon_actor"])
	require.Equal(t, map[string]any{"title": "Fix bug"}, ctx["input_data"])
	require.NotContains(t, ctx, "pantheon_artifact_id")
}

func TestCreateTemplateContextAllocatesArtifactIDOnlyForCreate(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := engine.CreateTemplateContext(nil, map[string]any{"pantheon_process": "create-ticket"}, OpCreate)
	require.Equal(t, 1, ctx["pantheon_artifact_id"])

	ctx2 := engine.CreateTemplateContext(nil, map[string]any{"pantheon_process": "create-ticket"}, OpCreate)
	require.Equal(t, 2, ctx2["pantheon_artifact_id"])
}

func TestCreateTemplateContextSkipsArtifactIDWhenProcessAbsent(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := engine.CreateTemplateContext(nil, map[string]any{"pantheon_actor": "qa"}, OpCreate)
	require.NotContains(t, ctx, "pantheon_artifact_id")
}
