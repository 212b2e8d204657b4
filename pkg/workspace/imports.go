package workspace

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pantheon-run/pantheon/pkg/pathsafety"
	"github.com/pantheon-run/pantheon/pkg/perr"
)

// importRegexp matches the import keyword followed by a single- or
// double-quoted path, per spec.md §4.4.1. As spec.md's Open Questions note,
// this deliberately matches anywhere on a line — including inside a DSL-C
// string literal that merely contains the substring `import '...'` — which
// mirrors the source's behavior rather than attempting to parse DSL-C
// syntax to disambiguate (doing so would require understanding DSL-C
// grammar, which is explicitly out of scope per spec.md §1).
var importRegexp = regexp.MustCompile(`\bimport\s+(["'])([^"']+)["']`)

// importChain is the ordered stack of absolute paths currently being
// preprocessed, used both for cycle detection and to name every file in
// the cycle, in encounter order, in a CircularImport error.
type importChain struct {
	paths []string
	seen  map[string]bool
}

func newImportChain() *importChain {
	return &importChain{seen: map[string]bool{}}
}

func (c *importChain) push(path string) bool {
	if c.seen[path] {
		return false
	}
	c.seen[path] = true
	c.paths = append(c.paths, path)
	return true
}

func (c *importChain) pop() {
	last := c.paths[len(c.paths)-1]
	delete(c.seen, last)
	c.paths = c.paths[:len(c.paths)-1]
}

// preprocessImports inlines every import found in content, recursively.
// currentPath is the absolute native path content was read from (used to
// resolve sibling imports and to detect cycles).
func (w *Workspace) preprocessImports(content string, currentPath string, chain *importChain) (string, error) {
	if !chain.push(currentPath) {
		return "", circularImportError(append(append([]string{}, chain.paths...), currentPath))
	}
	defer chain.pop()

	matches := importRegexp.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		fullStart, fullEnd := m[0], m[1]
		pathStart, pathEnd := m[4], m[5]
		importPath := content[pathStart:pathEnd]

		resolved, err := w.resolveImport(importPath, currentPath, chain)
		if err != nil {
			return "", err
		}

		b.WriteString(content[last:fullStart])
		b.WriteString(resolved)
		last = fullEnd
	}
	b.WriteString(content[last:])
	return b.String(), nil
}

func (w *Workspace) resolveImport(importPath, currentPath string, chain *importChain) (string, error) {
	if strings.Contains(importPath, "://") {
		return w.GetResolvedContent(importPath)
	}

	if err := pathsafety.ValidateImportPath(importPath); err != nil {
		return "", err
	}

	siblingPath := filepath.Join(filepath.Dir(currentPath), importPath)
	content, err := w.fs.ReadText(siblingPath)
	if err != nil {
		return "", perr.Wrap(perr.KindNotFound, "import target not found", err).WithPath(importPath)
	}

	return w.preprocessImports(content, siblingPath, chain)
}

func circularImportError(chain []string) error {
	return perr.New(perr.KindCircularImport, fmt.Sprintf("circular import: %s", strings.Join(chain, " -> "))).WithPath(chain[0])
}
