package artifactengine

import (
	"sort"
	"strings"

	"github.com/pantheon-run/pantheon/pkg/perr"
)

type sectionBounds struct {
	name  string
	start string
	end   string
}

// SpliceUpdate implements UPDATE section splicing (spec.md §4.5): targetContent
// is the process's compiled `artifact/target.jsonnet`, yielding either a
// single flat `{section_start, section_end}` pair or a nested
// `sections: {name: {start, end}}` map. Each section is patched by
// rendering patchTemplate against the full context and replacing exactly
// the substring between its markers (first occurrence only), leaving
// everything else — including the markers themselves — untouched.
func (e *Engine) SpliceUpdate(artifactDisplayPath, currentContent, targetContent, patchTemplate string, inputParams, frameworkParams map[string]any) (string, error) {
	compiled, err := evaluateDSLCValue(targetContent, "target.jsonnet", nil)
	if err != nil {
		return "", err
	}
	target, _ := compiled.(map[string]any)

	sections, err := sectionsToPatch(target)
	if err != nil {
		return "", err
	}

	ctx := e.CreateTemplateContext(inputParams, frameworkParams, OpUpdate)

	result := currentContent
	for _, section := range sections {
		body, err := RenderTemplate(patchTemplate, ctx, "patch."+section.name)
		if err != nil {
			return "", err
		}
		spliced, ok := spliceBetween(result, section.start, section.end, body)
		if !ok {
			return "", perr.New(perr.KindMissingSection, "could not locate section markers").
				WithField(section.name).WithPath(artifactDisplayPath)
		}
		result = spliced
	}
	return result, nil
}

func sectionsToPatch(target map[string]any) ([]sectionBounds, error) {
	if nested, ok := target["sections"].(map[string]any); ok {
		names := make([]string, 0, len(nested))
		for name := range nested {
			names = append(names, name)
		}
		sort.Strings(names)

		sections := make([]sectionBounds, 0, len(names))
		for _, name := range names {
			bounds, ok := nested[name].(map[string]any)
			if !ok {
				continue
			}
			start, _ := bounds["start"].(string)
			end, _ := bounds["end"].(string)
			sections = append(sections, sectionBounds{name: name, start: start, end: end})
		}
		return sections, nil
	}

	start, hasStart := target["section_start"].(string)
	end, hasEnd := target["section_end"].(string)
	if !hasStart || !hasEnd {
		return nil, perr.New(perr.KindMissingSection, "target.jsonnet did not yield a recognizable section shape")
	}
	return []sectionBounds{{name: "content", start: start, end: end}}, nil
}

// spliceBetween replaces the (first-occurrence) substring between start and
// end with body, preserving the markers themselves and everything outside
// them.
func spliceBetween(text, start, end, body string) (string, bool) {
	if start == "" || end == "" {
		return "", false
	}
	startIdx := strings.Index(text, start)
	if startIdx < 0 {
		return "", false
	}
	bodyStart := startIdx + len(start)
	endIdx := strings.Index(text[bodyStart:], end)
	if endIdx < 0 {
		return "", false
	}
	return text[:bodyStart] + body + text[bodyStart+endIdx:], true
}
