package artifactengine

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nikolalohinski/gonja"
	"github.com/nikolalohinski/gonja/config"
	"github.com/nikolalohinski/gonja/exec"
	"github.com/nikolalohinski/gonja/loaders"

	"github.com/goccy/go-yaml"

	"github.com/pantheon-run/pantheon/pkg/perr"
	"github.com/pantheon-run/pantheon/pkg/sliceutil"
	"github.com/pantheon-run/pantheon/pkg/workspace"
)

// dslTConfig matches the environment flags required by spec.md §4.5:
// autoescape off, lenient undefined handling emulated separately (see
// RenderTemplate), trim_blocks off, lstrip_blocks on, keep_trailing_newline on.
func dslTConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Autoescape = false
	cfg.TrimBlocks = false
	cfg.LstripBlocks = true
	cfg.KeepTrailingNewline = true
	return cfg
}

func registerFilters(env *gonja.Environment) {
	env.Filters.Register("slugify", filterSlugify)
	env.Filters.Register("remove_suffix", filterRemoveSuffix)
	env.Filters.Register("to_yaml", filterToYAML)
}

var newBasicEnvironment = func() *gonja.Environment {
	env := gonja.NewEnvironment(dslTConfig(), loaders.MustNewLocalFileSystemLoader(""))
	registerFilters(env)
	return env
}

// NewArtifactTemplateEnvironment builds the CREATE-path rendering
// environment: a loader chain trying SemanticUriLoader first (so
// `{% include 'artifact-template://…' %}` resolves cross-process assets),
// falling back to a plain filesystem loader rooted at teamRoot.
func NewArtifactTemplateEnvironment(ws *workspace.Workspace, teamRoot string) *gonja.Environment {
	chain := chainLoader{
		primary:  SemanticURILoader{ws: ws},
		fallback: loaders.MustNewLocalFileSystemLoader(teamRoot),
	}
	env := gonja.NewEnvironment(dslTConfig(), chain)
	registerFilters(env)
	return env
}

// SemanticURILoader resolves `scheme://process[...]` include targets
// through Workspace.GetResolvedContent, the same routing used by DSL-C
// import preprocessing (pkg/workspace/uri.go).
type SemanticURILoader struct {
	ws *workspace.Workspace
}

func (l SemanticURILoader) Resolve(path string) (string, error) {
	if !strings.Contains(path, "://") {
		return "", perr.New(perr.KindNotFound, "not a semantic URI").WithPath(path)
	}
	return path, nil
}

func (l SemanticURILoader) Get(path string) (io.Reader, error) {
	content, err := l.ws.GetResolvedContent(path)
	if err != nil {
		return nil, err
	}
	return strings.NewReader(content), nil
}

// chainLoader tries primary, falling back to fallback on any resolution
// failure — the loader-chain integration named in spec.md §4.4.2.
type chainLoader struct {
	primary  loaders.Loader
	fallback loaders.Loader
}

func (c chainLoader) Resolve(path string) (string, error) {
	if resolved, err := c.primary.Resolve(path); err == nil {
		return resolved, nil
	}
	return c.fallback.Resolve(path)
}

func (c chainLoader) Get(path string) (io.Reader, error) {
	if _, err := c.primary.Resolve(path); err == nil {
		return c.primary.Get(path)
	}
	return c.fallback.Get(path)
}

// bareVarRef matches a template reference to a single bare identifier with
// no filters or attribute access — the shape DebugUndefined emulation below
// actually needs to detect, since anything more complex already fails loud.
var bareVarRef = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// RenderTemplate renders text against a basic environment (no loaders, no
// includes). Variables absent from context render back as `{{ name }}`
// rather than failing — spec.md's DebugUndefined behavior — and each
// undefined name is logged once with a suggestion for the nearest defined
// variable name, by substring / shared-token / position-match heuristics.
func RenderTemplate(text string, context map[string]any, name string) (string, error) {
	effectiveContext := make(map[string]any, len(context))
	for k, v := range context {
		effectiveContext[k] = v
	}

	undefinedNames := map[string]bool{}
	for _, match := range bareVarRef.FindAllStringSubmatch(text, -1) {
		varName := match[1]
		if _, known := context[varName]; known {
			continue
		}
		undefinedNames[varName] = true
		effectiveContext[varName] = "{{ " + varName + " }}"
	}

	for varName := range undefinedNames {
		log.LazyPrintf(func() string {
			return fmt.Sprintf("undefined template variable %q in %s; suggestion: %s", varName, renderName(name), suggestClosest(varName, context))
		})
	}

	env := newBasicEnvironment()
	tpl, err := env.FromString(text)
	if err != nil {
		return "", perr.Wrap(perr.KindTemplateRender, "failed to parse template", err).WithPath(name)
	}
	out, err := tpl.ExecuteToString(exec.NewContext(effectiveContext))
	if err != nil {
		return "", perr.Wrap(perr.KindTemplateRender, "failed to render template", err).WithPath(name)
	}
	return out, nil
}

// RenderArtifactTemplate renders text against a caller-supplied environment
// (e.g. NewArtifactTemplateEnvironment's loader-chain environment), without
// the DebugUndefined emulation RenderTemplate applies — includes resolved
// through the environment's loader are expected to always be fully defined.
func RenderArtifactTemplate(text string, context map[string]any, env *gonja.Environment, name string) (string, error) {
	tpl, err := env.FromString(text)
	if err != nil {
		return "", perr.Wrap(perr.KindTemplateRender, "failed to parse artifact template", err).WithPath(name)
	}
	out, err := tpl.ExecuteToString(exec.NewContext(context))
	if err != nil {
		return "", perr.Wrap(perr.KindTemplateRender, "failed to render artifact template", err).WithPath(name)
	}
	return out, nil
}

func renderName(name string) string {
	if name == "" {
		return "<template>"
	}
	return name
}

// suggestClosest recommends the nearest defined context key to an
// undefined varName, by substring containment, shared-token overlap, or
// (failing both) a position-based guess among sorted keys.
func suggestClosest(varName string, context map[string]any) string {
	if len(context) == 0 {
		return "(no defined variables)"
	}
	keys := make([]string, 0, len(context))
	for k := range context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if sliceutil.ContainsIgnoreCase(k, varName) || sliceutil.ContainsIgnoreCase(varName, k) {
			return k
		}
	}

	varTokens := strings.Split(varName, "_")
	bestKey, bestScore := "", 0
	for _, k := range keys {
		score := 0
		for _, t := range varTokens {
			if t != "" && sliceutil.ContainsAny(k, t) {
				score++
			}
		}
		if score > bestScore {
			bestKey, bestScore = k, score
		}
	}
	if bestScore > 0 {
		return bestKey
	}

	return keys[0]
}

// --- filters ---

func filterSlugify(_ *exec.Evaluator, in *exec.Value, _ *exec.VarArgs) *exec.Value {
	s := strings.ToLower(in.String())
	s = regexp.MustCompile(`[\s_]+`).ReplaceAllString(s, "-")
	s = regexp.MustCompile(`[^a-z0-9-]+`).ReplaceAllString(s, "")
	s = regexp.MustCompile(`-+`).ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return exec.AsValue(s)
}

func filterRemoveSuffix(_ *exec.Evaluator, in *exec.Value, params *exec.VarArgs) *exec.Value {
	text := in.String()
	ignoreCase := false
	if v, ok := params.Kwargs["ignore_case"]; ok {
		ignoreCase = v.Bool()
	}

	var suffixes []string
	if len(params.Args) > 0 {
		arg := params.Args[0]
		if arg.IsList() {
			for i := 0; i < arg.Len(); i++ {
				suffixes = append(suffixes, arg.Index(i).String())
			}
		} else {
			suffixes = append(suffixes, arg.String())
		}
	}

	compare := text
	if ignoreCase {
		compare = strings.ToLower(compare)
	}
	for _, suffix := range suffixes {
		if suffix == "" {
			continue
		}
		cmpSuffix := suffix
		if ignoreCase {
			cmpSuffix = strings.ToLower(cmpSuffix)
		}
		if strings.HasSuffix(compare, cmpSuffix) {
			return exec.AsValue(text[:len(text)-len(suffix)])
		}
	}
	return exec.AsValue(text)
}

func filterToYAML(_ *exec.Evaluator, in *exec.Value, _ *exec.VarArgs) *exec.Value {
	data, ok := in.Interface().(map[string]any)
	if !ok {
		encoded, err := yaml.Marshal(in.Interface())
		if err != nil {
			return exec.AsValue("")
		}
		return exec.AsValue(string(encoded))
	}

	propertyDefs, hasPropertyDefs := data["property_definitions"].(map[string]any)
	if !hasPropertyDefs {
		encoded, err := yaml.Marshal(data)
		if err != nil {
			return exec.AsValue("")
		}
		return exec.AsValue(string(encoded))
	}

	cleaned := copyMap(data)
	delete(cleaned, "property_definitions")

	var b strings.Builder
	names := make([]string, 0, len(propertyDefs))
	for name := range propertyDefs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		def, ok := propertyDefs[name].(map[string]any)
		if !ok {
			continue
		}
		b.WriteString("# " + name + "\n")
		if desc, ok := def["description"].(string); ok {
			b.WriteString("#   " + strings.TrimPrefix(desc, "Example: ") + "\n")
		}
		if typ, ok := def["type"].(string); ok {
			line := "#   Type: " + typ
			if typ == "boolean" {
				line += " (true/false)"
			}
			b.WriteString(line + "\n")
		}
		if enum, ok := def["enum"].([]any); ok {
			opts := make([]string, 0, len(enum))
			for _, v := range enum {
				opts = append(opts, asString(v))
			}
			b.WriteString("#   Options: " + strings.Join(opts, ", ") + "\n")
		}
		if _, documented := cleaned[name]; documented {
			b.WriteString("# " + name + " (documented above)\n")
		}
	}

	encoded, err := yaml.Marshal(cleaned)
	if err != nil {
		return exec.AsValue(b.String())
	}
	b.Write(encoded)
	return exec.AsValue(b.String())
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	default:
		encoded, _ := yaml.Marshal(t)
		return strings.TrimSpace(string(encoded))
	}
}
