package artifactengine

import (
	"regexp"

	"github.com/pantheon-run/pantheon/pkg/pathvalue"
)

// FindArtifact locates the artifact for process, normalizing artifactID
// through the process's parser (if any) before compiling the locator.
// Per spec.md §4.5: multi-artifact mode (parser present) requires an id
// and returns nil when it's absent; singleton mode ignores any id and
// applies exactly-one semantics. Both "no matches" and "more than one
// match" return (nil, nil) with a logged warning — callers cannot tell
// the two apart, by design.
func (e *Engine) FindArtifact(process string, artifactID string) (*pathvalue.PathValue, error) {
	if e.ws.HasArtifactParser(process) {
		if artifactID == "" {
			return nil, nil
		}

		parserContent, err := e.ws.GetArtifactParser(process)
		if err != nil {
			return nil, err
		}
		canonicalID, err := e.normalizeArtifactID(parserContent, artifactID, process)
		if err != nil {
			return nil, err
		}

		locatorContent, err := e.ws.GetArtifactLocator(process)
		if err != nil {
			return nil, err
		}
		pattern, directory, err := e.compileLocator(locatorContent, process, map[string]string{"pantheon_artifact_id": canonicalID})
		if err != nil {
			return nil, err
		}
		return e.selectSingleMatch(pattern, directory, process)
	}

	locatorContent, err := e.ws.GetArtifactLocator(process)
	if err != nil {
		return nil, err
	}
	pattern, directory, err := e.compileLocator(locatorContent, process, nil)
	if err != nil {
		return nil, err
	}
	return e.selectSingleMatch(pattern, directory, process)
}

// normalizeArtifactID applies the parser's ordered list of
// {pattern, replacement} regex substitutions to rawID. Malformed rule
// shapes and invalid regexes are skipped with a warning rather than
// aborting normalization.
func (e *Engine) normalizeArtifactID(parserContent, rawID, process string) (string, error) {
	compiled, err := evaluateDSLCValue(parserContent, process+"/parser.jsonnet", nil)
	if err != nil {
		return "", err
	}
	rules, ok := compiled.([]any)
	if !ok {
		log.Printf("parser for process=%s did not produce a list; leaving id unnormalized", process)
		return rawID, nil
	}

	id := rawID
	for _, raw := range rules {
		rule, ok := raw.(map[string]any)
		if !ok {
			log.Printf("skipping malformed parser rule for process=%s: %v", process, raw)
			continue
		}
		pattern, _ := rule["pattern"].(string)
		replacement, _ := rule["replacement"].(string)
		if pattern == "" {
			log.Printf("skipping parser rule with empty pattern for process=%s", process)
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			log.Printf("invalid parser regex %q for process=%s: %v", pattern, process, err)
			continue
		}
		id = re.ReplaceAllString(id, replacement)
	}
	return id, nil
}

// compileLocator evaluates a locator DSL-C object of shape
// {pattern: regex-string, directory?: string}.
func (e *Engine) compileLocator(locatorContent, process string, extVars map[string]string) (pattern, directory string, err error) {
	compiled, err := evaluateDSLCValue(locatorContent, process+"/locator.jsonnet", extVars)
	if err != nil {
		return "", "", err
	}
	obj, _ := compiled.(map[string]any)
	pattern, _ = obj["pattern"].(string)
	directory, _ = obj["directory"].(string)
	return pattern, directory, nil
}

func (e *Engine) selectSingleMatch(pattern, directory, process string) (*pathvalue.PathValue, error) {
	matches := e.ws.GetMatchingArtifact(pattern, directory)
	switch len(matches) {
	case 0:
		log.Printf("no artifact matched locator for process=%s", process)
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		log.Printf("multiple artifacts matched locator for process=%s; treating as not found", process)
		return nil, nil
	}
}
