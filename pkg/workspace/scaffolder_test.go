package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pantheon-run/pantheon/pkg/pathvalue"
)

func TestScaffoldCreateProcessWritesEachSuppliedFile(t *testing.T) {
	ws, root := newTestWorkspace(t, "acme")
	bundleRoot := pathvalue.MustNew("pantheon-teams", "acme", "processes")

	written, err := ws.ScaffoldCreateProcess(bundleRoot, "open-incident", map[string]string{
		"content":   "# {{ title }}",
		"placement": "{{ team }}/incidents",
		"naming":    "{{ id }}.md",
		"schema":    "{title: string}",
	}, nil)
	require.NoError(t, err)
	require.Len(t, written, 4)

	data, err := os.ReadFile(filepath.Join(root, "pantheon-teams", "acme", "processes", "open-incident", "artifact", "content.md"))
	require.NoError(t, err)
	require.Equal(t, "# {{ title }}", string(data))

	schema, err := os.ReadFile(filepath.Join(root, "pantheon-teams", "acme", "processes", "open-incident", "schema.jsonnet"))
	require.NoError(t, err)
	require.Equal(t, "{title: string}", string(schema))
}

func TestScaffoldWriteSkipsDefaultRoutineWhenBundledTemplateMissing(t *testing.T) {
	ws, root := newTestWorkspace(t, "acme")
	bundleRoot := pathvalue.MustNew("pantheon-teams", "acme", "processes")

	ws.SetBasicRenderer(func(template string, vars map[string]any) (string, error) {
		return "rendered:" + template, nil
	})

	_, err := ws.ScaffoldCreateProcess(bundleRoot, "open-incident", map[string]string{
		"content": "body",
	}, map[string]any{"team": "acme"})
	require.NoError(t, err)

	routinePath := filepath.Join(root, "pantheon-teams", "acme", "processes", "open-incident", "routine.md")
	_, statErr := os.Stat(routinePath)
	require.True(t, os.IsNotExist(statErr))
}

func TestScaffoldWriteSkipsUnknownFileKeys(t *testing.T) {
	ws, _ := newTestWorkspace(t, "acme")
	bundleRoot := pathvalue.MustNew("pantheon-teams", "acme", "processes")

	written, err := ws.ScaffoldCreateProcess(bundleRoot, "open-incident", map[string]string{
		"not-a-real-key": "x",
	}, nil)
	require.NoError(t, err)
	require.Empty(t, written)
}
