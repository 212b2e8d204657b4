package processhandler

import (
	"embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pantheon-run/pantheon/pkg/artifactengine"
	"github.com/pantheon-run/pantheon/pkg/filesystem"
	"github.com/pantheon-run/pantheon/pkg/idcounter"
	"github.com/pantheon-run/pantheon/pkg/workspace"
)

var emptyBundle embed.FS

// newTestHandler lays out a minimal project tree under t.TempDir() and
// wires Workspace + IdCounter + ArtifactEngine into a Handler, the same
// composition cmd/pantheon's newHandler performs.
func newTestHandler(t *testing.T) (*Handler, *workspace.Workspace, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".pantheon_project"), []byte("active_team: acme\n"), 0o644))

	fs := filesystem.NewOSFileSystem(emptyBundle, "")
	ws, err := workspace.New(root, "", fs)
	require.NoError(t, err)

	ws.SetSectionsResolver(func(markersContent, dataPath string) (string, error) {
		return artifactengine.ResolveURIData(markersContent, dataPath, nil)
	})
	ws.SetBasicRenderer(func(templateContent string, vars map[string]any) (string, error) {
		return artifactengine.RenderTemplate(templateContent, vars, "routine")
	})

	engine := artifactengine.New(ws, idcounter.New(ws))
	return New(ws, engine), ws, root
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

func setUpCreateTicketProcess(t *testing.T, root string) {
	t.Helper()
	writeProcessFile(t, root, "create-ticket", "routine.md", "# Create a ticket\n")
	writeProcessFile(t, root, "create-ticket", "schema.jsonnet", `{title: {type: "string"}}`)
	writeArtifactDirFile(t, root, "create-ticket", "content.md", "# {{ title }}\n")
	writeArtifactDirFile(t, root, "create-ticket", "placement.jinja", "tickets")
	writeArtifactDirFile(t, root, "create-ticket", "naming.jinja", "{{ pantheon_artifact_id }}.md")
}
