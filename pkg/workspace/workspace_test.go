package workspace

import (
	"embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pantheon-run/pantheon/pkg/filesystem"
)

var emptyBundle embed.FS

// newTestWorkspace lays out a minimal project tree under t.TempDir() and
// returns a Workspace over the real OS filesystem, matching how the teacher
// exercises filesystem-backed code against real temp directories rather
// than a mock.
func newTestWorkspace(t *testing.T, team string) (*Workspace, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".pantheon_project"), []byte("active_team: "+team+"\n"), 0o644))

	processDir := filepath.Join(root, "pantheon-teams", team, "processes", "create-ticket")
	require.NoError(t, os.MkdirAll(filepath.Join(processDir, "artifact"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(processDir, "routine.md"), []byte("# Create a ticket\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processDir, "schema.jsonnet"), []byte("{title: string}\n"), 0o644))

	fs := filesystem.NewOSFileSystem(emptyBundle, "")
	ws, err := New(root, "", fs)
	require.NoError(t, err)
	return ws, root
}

func TestNewDefaultsArtifactsRootWhenUnconfigured(t *testing.T) {
	ws, root := newTestWorkspace(t, "acme")
	require.Equal(t, filepath.Join(root, "artifacts"), ws.artifactsRootAbs)
}

func TestNewHonorsExplicitArtifactsRootOverride(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".pantheon_project"), []byte("active_team: acme\n"), 0o644))
	fs := filesystem.NewOSFileSystem(emptyBundle, "")
	ws, err := New(root, "out", fs)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "out"), ws.artifactsRootAbs)
}

func TestDiscoverProjectRootWalksUpward(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".pantheon_project"), []byte(""), 0o644))
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	fs := filesystem.NewOSFileSystem(emptyBundle, "")
	found, ok := DiscoverProjectRoot(fs, nested)
	require.True(t, ok)
	require.Equal(t, root, found)
}

func TestDiscoverProjectRootReturnsFalseWhenAbsent(t *testing.T) {
	fs := filesystem.NewOSFileSystem(emptyBundle, "")
	_, ok := DiscoverProjectRoot(fs, t.TempDir())
	require.False(t, ok)
}

func TestGetProcessSchemaReadsAndPreprocesses(t *testing.T) {
	ws, _ := newTestWorkspace(t, "acme")
	content, err := ws.GetProcessSchema("create-ticket")
	require.NoError(t, err)
	require.Equal(t, "{title: string}\n", content)
}

func TestCheckProcessExists(t *testing.T) {
	ws, _ := newTestWorkspace(t, "acme")
	require.NoError(t, ws.CheckProcessExists("create-ticket"))
	require.Error(t, ws.CheckProcessExists("does-not-exist"))
}

func TestGetProcessRoutine(t *testing.T) {
	ws, _ := newTestWorkspace(t, "acme")
	routine, err := ws.GetProcessRoutine("create-ticket")
	require.NoError(t, err)
	require.Equal(t, "# Create a ticket\n", routine)
}

func TestGetTeamPackagePathDefaultsToActiveTeam(t *testing.T) {
	ws, _ := newTestWorkspace(t, "acme")
	p, err := ws.GetTeamPackagePath("")
	require.NoError(t, err)
	require.Equal(t, "pantheon-teams/acme", p.String())
}

func TestGetConfigFallsBackToGlobalThenEmpty(t *testing.T) {
	ws, root := newTestWorkspace(t, "acme")
	configDir := filepath.Join(root, "pantheon-teams", "acme", "config")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "limits.yaml"), []byte("max: 5\n"), 0o644))

	cfg, err := ws.GetConfig("limits", "")
	require.NoError(t, err)
	require.Equal(t, uint64(5), toUint(cfg["max"]))

	empty, err := ws.GetConfig("absent", "")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func toUint(v any) uint64 {
	switch n := v.(type) {
	case int:
		return uint64(n)
	case uint64:
		return n
	case float64:
		return uint64(n)
	default:
		return 0
	}
}
