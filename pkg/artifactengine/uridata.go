package artifactengine

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/pantheon-run/pantheon/pkg/perr"
)

// ResolveURIData compiles jsonnetContent and extracts dataPath (dot
// notation; a numeric component indexes into an array), per spec.md
// §4.5. WYSIWYG fallback: if the direct path isn't found and the compiled
// result has a top-level `properties` key, retry under
// `properties.<dataPath>` before giving up. A string value is returned
// as-is; any other value is JSON-encoded, so the result can flow back
// through Workspace's semantic-URI resolution as text.
func ResolveURIData(jsonnetContent, dataPath string, extVars map[string]string) (string, error) {
	compiled, err := evaluateDSLCValue(jsonnetContent, "uri-data.jsonnet", extVars)
	if err != nil {
		return "", err
	}

	if value, ok := navigateDataPath(compiled, dataPath); ok {
		return encodeResolvedValue(value)
	}

	if obj, ok := compiled.(map[string]any); ok {
		if _, hasProperties := obj["properties"]; hasProperties {
			if value, ok := navigateDataPath(compiled, "properties."+dataPath); ok {
				return encodeResolvedValue(value)
			}
		}
	}

	available := strings.Join(enumeratePaths(compiled, "", 3), ", ")
	return "", perr.New(perr.KindNotFound, "data path "+dataPath+" not found; available paths: "+available).WithPath(dataPath)
}

func navigateDataPath(value any, path string) (any, bool) {
	if path == "" {
		return value, true
	}
	current := value
	for _, segment := range strings.Split(path, ".") {
		switch v := current.(type) {
		case map[string]any:
			next, ok := v[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			current = v[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func enumeratePaths(value any, prefix string, depthRemaining int) []string {
	if depthRemaining <= 0 {
		return nil
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var paths []string
	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		paths = append(paths, path)
		paths = append(paths, enumeratePaths(obj[k], path, depthRemaining-1)...)
	}
	return paths
}

func encodeResolvedValue(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", perr.Wrap(perr.KindEncode, "failed to encode resolved uri data", err)
	}
	return string(encoded), nil
}
