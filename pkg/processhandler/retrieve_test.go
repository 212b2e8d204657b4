package processhandler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setUpRetrieveProcess(t *testing.T, root string) {
	t.Helper()
	writeProcessFile(t, root, "get-ticket", "routine.md", "# Retrieve a ticket\n")
	writeArtifactDirFile(t, root, "get-ticket", "locator.jsonnet", `{pattern: "^T-1\\.md$", directory: "tickets"}`)
	writeArtifactDirFile(t, root, "get-ticket", "sections.jsonnet", `{section_start: "<!--S-->", section_end: "<!--/S-->"}`)
}

func TestExecuteRetrieveProcessFindsAndExtractsSections(t *testing.T) {
	h, _, root := newTestHandler(t)
	setUpRetrieveProcess(t, root)

	artifactsDir := filepath.Join(root, "artifacts", "tickets")
	require.NoError(t, os.MkdirAll(artifactsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(artifactsDir, "T-1.md"), []byte("x<!--S-->hello<!--/S-->y"), 0o644))

	result, err := h.ExecuteRetrieveProcess("get-ticket", "", []string{"content"})
	require.NoError(t, err)
	require.True(t, result.Found)
	require.Equal(t, "hello", result.Sections["content"])
}

func TestExecuteRetrieveProcessNotFoundWhenNoMatch(t *testing.T) {
	h, _, root := newTestHandler(t)
	setUpRetrieveProcess(t, root)

	result, err := h.ExecuteRetrieveProcess("get-ticket", "", nil)
	require.NoError(t, err)
	require.False(t, result.Found)
	require.Nil(t, result.Sections)
}
