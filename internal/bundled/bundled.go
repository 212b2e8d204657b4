// Package bundled embeds the default assets Scaffolder overlays when a
// BUILD call doesn't supply its own content, mirroring the teacher's
// pkg/workflow/js.go go:embed convention (there per-script vars; here a
// small embedded tree since FileSystem.ReadBundledResource addresses
// resources by path rather than by a dedicated Go identifier per file).
package bundled

import (
	"embed"

	"github.com/pantheon-run/pantheon/pkg/filesystem"
)

//go:embed resources
var Resources embed.FS

// Root is the directory inside Resources that resource paths are joined
// against by filesystem.OSFileSystem.ReadBundledResource.
const Root = "resources"

// FileSystem constructs the production filesystem.FileSystem, wired to this
// package's embedded default-routine bundle.
func FileSystem() *filesystem.OSFileSystem {
	return filesystem.NewOSFileSystem(Resources, Root)
}
