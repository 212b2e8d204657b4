package artifactengine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindArtifactSingletonModeLocatesExactlyOneMatch(t *testing.T) {
	engine, _, root := newTestEngine(t)
	writeArtifactDirFile(t, root, "create-ticket", "locator.jsonnet", `{pattern: "^T-\\d+\\.md$", directory: "tickets"}`)

	artifactsDir := filepath.Join(root, "artifacts", "tickets")
	require.NoError(t, os.MkdirAll(artifactsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(artifactsDir, "T-1.md"), []byte("x"), 0o644))

	found, err := engine.FindArtifact("create-ticket", "")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, "tickets/T-1.md", found.String())
}

func TestFindArtifactSingletonModeNoMatchReturnsNil(t *testing.T) {
	engine, _, root := newTestEngine(t)
	writeArtifactDirFile(t, root, "create-ticket", "locator.jsonnet", `{pattern: "^T-\\d+\\.md$"}`)

	found, err := engine.FindArtifact("create-ticket", "")
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestFindArtifactMultiModeRequiresArtifactID(t *testing.T) {
	engine, _, root := newTestEngine(t)
	writeArtifactDirFile(t, root, "create-ticket", "parser.jsonnet", `[]`)

	found, err := engine.FindArtifact("create-ticket", "")
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestFindArtifactMultiModeNormalizesIDThenLocates(t *testing.T) {
	engine, _, root := newTestEngine(t)
	writeArtifactDirFile(t, root, "create-ticket", "parser.jsonnet", `[{pattern: "^TICKET-", replacement: "T-"}]`)
	writeArtifactDirFile(t, root, "create-ticket", "locator.jsonnet", `{pattern: "^" + std.extVar("pantheon_artifact_id") + "\\.md$", directory: "tickets"}`)

	artifactsDir := filepath.Join(root, "artifacts", "tickets")
	require.NoError(t, os.MkdirAll(artifactsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(artifactsDir, "T-1.md"), []byte("x"), 0o644))

	found, err := engine.FindArtifact("create-ticket", "TICKET-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, "tickets/T-1.md", found.String())
}

func TestSelectSingleMatchTreatsMultipleMatchesAsNotFound(t *testing.T) {
	engine, _, root := newTestEngine(t)
	writeArtifactDirFile(t, root, "create-ticket", "locator.jsonnet", `{pattern: "^T-\\d+\\.md$", directory: "tickets"}`)

	artifactsDir := filepath.Join(root, "artifacts", "tickets")
	require.NoError(t, os.MkdirAll(artifactsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(artifactsDir, "T-1.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(artifactsDir, "T-2.md"), []byte("x"), 0o644))

	found, err := engine.FindArtifact("create-ticket", "")
	require.NoError(t, err)
	require.Nil(t, found)
}
