package artifactengine

import (
	"embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pantheon-run/pantheon/pkg/filesystem"
	"github.com/pantheon-run/pantheon/pkg/idcounter"
	"github.com/pantheon-run/pantheon/pkg/workspace"
)

var emptyBundle embed.FS

// newTestEngine lays out a minimal create-ticket process tree under
// t.TempDir() and wires a real Workspace + IdCounter into an Engine,
// matching pkg/workspace's own filesystem-backed test convention.
func newTestEngine(t *testing.T) (*Engine, *workspace.Workspace, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".pantheon_project"), []byte("active_team: acme\n"), 0o644))

	processDir := filepath.Join(root, "pantheon-teams", "acme", "processes", "create-ticket")
	require.NoError(t, os.MkdirAll(filepath.Join(processDir, "artifact"), 0o755))

	fs := filesystem.NewOSFileSystem(emptyBundle, "")
	ws, err := workspace.New(root, "", fs)
	require.NoError(t, err)

	ws.SetSectionsResolver(func(markersContent, dataPath string) (string, error) {
		return ResolveURIData(markersContent, dataPath, nil)
	})
	ws.SetBasicRenderer(func(templateContent string, vars map[string]any) (string, error) {
		return RenderTemplate(templateContent, vars, "routine")
	})

	engine := New(ws, idcounter.New(ws))
	return engine, ws, root
}

func writeProcessFile(t *testing.T, root, process, name, content string) {
	t.Helper()
	dir := filepath.Join(root, "pantheon-teams", "acme", "processes", process)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func writeArtifactDirFile(t *testing.T, root, process, name, content string) {
	t.Helper()
	dir := filepath.Join(root, "pantheon-teams", "acme", "processes", process, "artifact")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
