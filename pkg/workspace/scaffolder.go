package workspace

import (
	"path/filepath"
	"sort"

	"github.com/pantheon-run/pantheon/pkg/pathvalue"
)

// BasicRenderer renders a bundled default-routine template against
// build-spec variables. It is injected rather than imported directly so
// pkg/workspace does not need to depend on pkg/artifactengine's DSL-T
// machinery just to scaffold a routine.md placeholder.
type BasicRenderer func(templateContent string, vars map[string]any) (string, error)

// SetBasicRenderer wires the renderer scaffold_* uses to fill in a process's
// default routine.md when the caller didn't supply its own routine content.
func (w *Workspace) SetBasicRenderer(renderer BasicRenderer) {
	w.basicRenderer = renderer
}

// scaffoldFileNames maps the BUILD-facing asset keys (spec.md §4.4.3) to
// their canonical on-disk filenames under <bundle_root>/<process>/.
var scaffoldFileNames = map[string]string{
	"content":         "artifact/content.md",
	"placement":       "artifact/placement.jinja",
	"naming":          "artifact/naming.jinja",
	"locator":         "artifact/locator.jsonnet",
	"parser":          "artifact/parser.jsonnet",
	"sections":        "artifact/sections.jsonnet",
	"target":          "artifact/target.jsonnet",
	"patch":           "artifact/patch.md",
	"jsonl_placement": "artifact/jsonl_placement.jinja",
	"jsonl_naming":    "artifact/jsonl_naming.jinja",
	"schema":          "schema.jsonnet",
	"permissions":     "permissions.jsonnet",
	"build_schema":    "build-schema.jsonnet",
	"directory":       "directory.jinja",
	"routine":         "routine.md",
	"redirect":        "redirect.md",
}

// ScaffoldCreateProcess, ScaffoldGetProcess, and ScaffoldUpdateProcess all
// write the supplied rendered file contents under
// <bundle_root>/<process>/, per spec.md §4.4.3. The three names exist to
// mirror the three BUILD operations that call this primitive; the write
// behavior itself doesn't differ by operation, since it's the caller
// (pkg/processhandler) that decides which file set a given operation needs.
func (w *Workspace) ScaffoldCreateProcess(bundleRoot pathvalue.PathValue, process string, files map[string]string, buildVars map[string]any) ([]pathvalue.PathValue, error) {
	return w.scaffoldWrite(bundleRoot, process, files, buildVars)
}

func (w *Workspace) ScaffoldGetProcess(bundleRoot pathvalue.PathValue, process string, files map[string]string, buildVars map[string]any) ([]pathvalue.PathValue, error) {
	return w.scaffoldWrite(bundleRoot, process, files, buildVars)
}

func (w *Workspace) ScaffoldUpdateProcess(bundleRoot pathvalue.PathValue, process string, files map[string]string, buildVars map[string]any) ([]pathvalue.PathValue, error) {
	return w.scaffoldWrite(bundleRoot, process, files, buildVars)
}

func (w *Workspace) scaffoldWrite(bundleRoot pathvalue.PathValue, process string, files map[string]string, buildVars map[string]any) ([]pathvalue.PathValue, error) {
	if _, hasRoutine := files["routine"]; !hasRoutine && w.basicRenderer != nil {
		if rendered, err := w.defaultRoutine(buildVars); err == nil {
			files = withRoutine(files, rendered)
		}
	}

	keys := make([]string, 0, len(files))
	for key := range files {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var written []pathvalue.PathValue
	for _, key := range keys {
		name, ok := scaffoldFileNames[key]
		if !ok {
			continue
		}
		dest, err := bundleRoot.Joinpath(process, name)
		if err != nil {
			return written, err
		}
		if err := w.scaffoldSave(dest, files[key]); err != nil {
			return written, err
		}
		written = append(written, dest)
	}
	return written, nil
}

func withRoutine(files map[string]string, rendered string) map[string]string {
	out := make(map[string]string, len(files)+1)
	for k, v := range files {
		out[k] = v
	}
	out["routine"] = rendered
	return out
}

// defaultRoutine renders the bundled default routine.md template against
// buildVars using the injected BasicRenderer.
func (w *Workspace) defaultRoutine(buildVars map[string]any) (string, error) {
	template, err := w.fs.ReadBundledResource("routine.md.tmpl")
	if err != nil {
		return "", err
	}
	return w.basicRenderer(template, buildVars)
}

// scaffoldSave writes content at dest resolved against the project root —
// unlike SaveArtifact, scaffolding writes process definitions (schema,
// routine, templates), which live alongside pantheon-teams/, not inside
// artifacts_root.
func (w *Workspace) scaffoldSave(dest pathvalue.PathValue, content string) error {
	abs := filepath.Join(w.projectRootAbs, filepath.FromSlash(w.unwrap(dest)))
	if err := w.fs.Mkdir(filepath.Dir(abs), true, true); err != nil {
		return err
	}
	if err := w.fs.WriteText(abs, content); err != nil {
		return err
	}
	w.log.Printf("scaffolded %s", dest.String())
	return nil
}
