package artifactengine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderTemplateSubstitutesKnownVariables(t *testing.T) {
	out, err := RenderTemplate("Hello {{ name }}", map[string]any{"name": "world"}, "greeting")
	require.NoError(t, err)
	require.Equal(t, "Hello world", out)
}

func TestRenderTemplateLeavesUndefinedBareVariableAsLiteral(t *testing.T) {
	out, err := RenderTemplate("Hello {{ missing }}", nil, "greeting")
	require.NoError(t, err)
	require.Equal(t, "Hello {{ missing }}", out)
}

func TestRenderTemplateSlugifyFilter(t *testing.T) {
	out, err := RenderTemplate("{{ title | slugify }}", map[string]any{"title": "Fix Bug #42!"}, "naming")
	require.NoError(t, err)
	require.Equal(t, "fix-bug-42", out)
}

func TestRenderTemplateRemoveSuffixFilter(t *testing.T) {
	out, err := RenderTemplate(`{{ name | remove_suffix(".md") }}`, map[string]any{"name": "T-1.md"}, "naming")
	require.NoError(t, err)
	require.Equal(t, "T-1", out)
}

func TestRenderTemplateToYAMLFilter(t *testing.T) {
	out, err := RenderTemplate("{{ data | to_yaml }}", map[string]any{"data": map[string]any{"a": "b"}}, "content")
	require.NoError(t, err)
	require.Contains(t, out, "a: b")
}

func TestSuggestClosestFindsSubstringMatch(t *testing.T) {
	closest := suggestClosest("titl", map[string]any{"title": "x", "author": "y"})
	require.Equal(t, "title", closest)
}

func TestSuggestClosestFallsBackToFirstSortedKeyWhenNoOverlap(t *testing.T) {
	closest := suggestClosest("zzz", map[string]any{"alpha": 1, "beta": 2})
	require.Equal(t, "alpha", closest)
}

func TestSuggestClosestNoContextReportsNone(t *testing.T) {
	require.Equal(t, "(no defined variables)", suggestClosest("x", nil))
}
