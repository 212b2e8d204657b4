package artifactengine

import (
	"strings"

	"github.com/pantheon-run/pantheon/pkg/pathvalue"
)

// GetArtifactSections extracts section bodies from the artifact at
// artifactPath per spec.md §4.5. sectionNames empty means "all sections"
// for the nested-shape case. When the process has no section markers, the
// whole file is returned under the "content" key. An unreadable file or
// malformed markers JSON degrades to an empty map with a logged warning
// rather than propagating an error, matching the
// RETRIEVE path's tolerance for partially-configured processes.
func (e *Engine) GetArtifactSections(process string, artifactPath pathvalue.PathValue, sectionNames []string) map[string]string {
	markersContent, err := e.ws.GetArtifactSectionMarkers(process)
	if err != nil {
		file, readErr := e.ws.ReadArtifactFile(artifactPath)
		if readErr != nil {
			log.Printf("get_artifact_sections: no markers and unreadable file for process=%s: %v", process, readErr)
			return map[string]string{}
		}
		return map[string]string{"content": file}
	}

	file, err := e.ws.ReadArtifactFile(artifactPath)
	if err != nil {
		log.Printf("get_artifact_sections: unreadable artifact for process=%s: %v", process, err)
		return map[string]string{}
	}

	markers, err := evaluateDSLCValue(markersContent, process+"/sections.jsonnet", nil)
	if err != nil {
		log.Printf("get_artifact_sections: markers did not compile for process=%s: %v", process, err)
		return map[string]string{}
	}
	markerObj, ok := markers.(map[string]any)
	if !ok {
		log.Printf("get_artifact_sections: markers are not an object for process=%s", process)
		return map[string]string{}
	}

	placeholder, _ := markerObj["placeholder"].(string)

	if nested, ok := markerObj["sections"].(map[string]any); ok {
		return extractNestedSections(file, nested, sectionNames, placeholder)
	}
	if start, ok := markerObj["section_start"].(string); ok {
		end, _ := markerObj["section_end"].(string)
		return extractFlatSections(file, start, end, sectionNames, placeholder)
	}

	if placeholder != "" && strings.Contains(file, placeholder) {
		return map[string]string{}
	}
	return map[string]string{"content": file}
}

func extractNestedSections(file string, nested map[string]any, requested []string, placeholder string) map[string]string {
	names := requested
	if len(names) == 0 {
		names = make([]string, 0, len(nested))
		for name := range nested {
			names = append(names, name)
		}
	}

	out := map[string]string{}
	for _, name := range names {
		bounds, ok := nested[name].(map[string]any)
		if !ok {
			continue
		}
		start, _ := bounds["start"].(string)
		end, _ := bounds["end"].(string)
		body, found := extractBetween(file, start, end)
		if !found {
			continue
		}
		if placeholder != "" && strings.Contains(body, placeholder) {
			continue
		}
		out[name] = strings.TrimSpace(body)
	}
	return out
}

func extractFlatSections(file string, startTpl, endTpl string, requested []string, placeholder string) map[string]string {
	out := map[string]string{}
	for _, name := range requested {
		start := strings.ReplaceAll(startTpl, "{name}", name)
		end := strings.ReplaceAll(endTpl, "{name}", name)
		body, found := extractBetween(file, start, end)
		if !found {
			continue
		}
		if placeholder != "" && strings.Contains(body, placeholder) {
			continue
		}
		out[name] = strings.TrimSpace(body)
	}
	return out
}

// extractBetween returns the substring strictly between the first
// occurrence of start and the first subsequent occurrence of end.
func extractBetween(file, start, end string) (string, bool) {
	if start == "" || end == "" {
		return "", false
	}
	startIdx := strings.Index(file, start)
	if startIdx < 0 {
		return "", false
	}
	bodyStart := startIdx + len(start)
	endIdx := strings.Index(file[bodyStart:], end)
	if endIdx < 0 {
		return "", false
	}
	return file[bodyStart : bodyStart+endIdx], true
}
