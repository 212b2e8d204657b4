// Package artifactengine implements ArtifactEngine (SPEC_FULL.md §4.5): the
// pure computational core of schema compilation, JSON-Schema validation,
// DSL-T rendering, artifact location, section extraction, and section
// splicing. It holds a Workspace reference only to read process assets and
// to search/read artifacts — it never performs a write.
package artifactengine

import (
	"encoding/json"
	"fmt"

	"github.com/google/go-jsonnet"

	"github.com/pantheon-run/pantheon/pkg/logger"
	"github.com/pantheon-run/pantheon/pkg/perr"
)

var log = logger.New("artifactengine")

// evaluateDSLC evaluates DSL-C (Jsonnet) content with the given external
// string/code variables and returns the parsed JSON result, which must
// decode to a JSON object. extCodes values are raw Jsonnet/JSON source —
// evaluated as literals rather than strings — matching go-jsonnet's
// ExtCode/ExtVar split.
func evaluateDSLC(content string, filename string, extVars map[string]string, extCodes map[string]string) (map[string]any, error) {
	vm := jsonnet.MakeVM()
	for k, v := range extVars {
		vm.ExtVar(k, v)
	}
	for k, v := range extCodes {
		vm.ExtCode(k, v)
	}

	raw, err := vm.EvaluateAnonymousSnippet(filename, content)
	if err != nil {
		return nil, perr.Wrap(perr.KindSchemaCompile, "DSL-C evaluation failed", err).WithPath(filename)
	}

	var result any
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, perr.Wrap(perr.KindSchemaCompile, "DSL-C output is not valid JSON", err).WithPath(filename)
	}

	obj, ok := result.(map[string]any)
	if !ok {
		return nil, perr.New(perr.KindSchemaCompile, fmt.Sprintf("DSL-C evaluation of %s did not produce a JSON object", filename)).WithPath(filename)
	}
	return obj, nil
}

// evaluateDSLCValue is like evaluateDSLC but accepts (and returns) any JSON
// value, for contexts — locator/parser/markers — that aren't necessarily a
// top-level object.
func evaluateDSLCValue(content string, filename string, extVars map[string]string) (any, error) {
	vm := jsonnet.MakeVM()
	for k, v := range extVars {
		vm.ExtVar(k, v)
	}

	raw, err := vm.EvaluateAnonymousSnippet(filename, content)
	if err != nil {
		return nil, perr.Wrap(perr.KindSchemaCompile, "DSL-C evaluation failed", err).WithPath(filename)
	}

	var result any
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, perr.Wrap(perr.KindSchemaCompile, "DSL-C output is not valid JSON", err).WithPath(filename)
	}
	return result, nil
}
