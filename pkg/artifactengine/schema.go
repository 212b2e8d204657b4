package artifactengine

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/pantheon-run/pantheon/pkg/perr"
)

// standardJSONSchemaKeywords are the root-level keywords sanitizeSchemaStructure
// leaves alone rather than nesting under properties.
var standardJSONSchemaKeywords = map[string]bool{
	"$schema":              true,
	"type":                 true,
	"title":                true,
	"description":          true,
	"required":             true,
	"additionalProperties": true,
	"definitions":          true,
	"$defs":                true,
}

// OperationKind is the CREATE/RETRIEVE/UPDATE classification of a
// template set, per spec.md §4.5.
type OperationKind string

const (
	OpCreate   OperationKind = "CREATE"
	OpRetrieve OperationKind = "RETRIEVE"
	OpUpdate   OperationKind = "UPDATE"
)

// DetectOperationType is a pure set-membership check on the supplied
// template keys.
func DetectOperationType(templates map[string]string) (OperationKind, error) {
	has := func(keys ...string) bool {
		for _, k := range keys {
			if _, ok := templates[k]; !ok {
				return false
			}
		}
		return true
	}

	if has("content", "placement", "naming") {
		return OpCreate, nil
	}
	if has("patch", "locator", "parser", "target") {
		return OpUpdate, nil
	}
	if has("locator", "parser", "sections") {
		if _, hasContent := templates["content"]; !hasContent {
			if _, hasPatch := templates["patch"]; !hasPatch {
				return OpRetrieve, nil
			}
		}
	}

	keys := make([]string, 0, len(templates))
	for k := range templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "", perr.New(perr.KindOpDetect, "cannot determine operation type from templates: "+strings.Join(keys, ", "))
}

// CompileProfileBundle evaluates a profile bundle written in DSL-C into the
// {active_profile, profiles} mapping CompileSchema expects. Empty content
// yields an empty bundle rather than an error.
func CompileProfileBundle(content string) (map[string]any, error) {
	if strings.TrimSpace(content) == "" {
		return map[string]any{}, nil
	}
	return evaluateDSLC(content, "team-profile.jsonnet", nil, nil)
}

// CompileSchema compiles schemaContent (DSL-C) into a JSON-Schema mapping,
// per spec.md §4.5. profileBundle, when shaped {active_profile, profiles},
// resolves the selected profile and feeds it in as external variables;
// string values become ext-vars, everything else becomes ext-code (the
// JSON-serialized literal, so DSL-C evaluates it natively rather than as a
// quoted string).
func CompileSchema(schemaContent string, profileBundle map[string]any, processName string, includeSchemaMetadata bool) (map[string]any, error) {
	if strings.TrimSpace(schemaContent) == "" {
		return nil, perr.New(perr.KindSchemaCompile, "schema content is empty").WithProcess(processName)
	}

	extVars, extCodes, err := profileToExternalVars(profileBundle)
	if err != nil {
		return nil, err
	}

	filename := processName
	if filename == "" {
		filename = "schema.jsonnet"
	}

	compiled, err := evaluateDSLC(schemaContent, filename, extVars, extCodes)
	if err != nil {
		return nil, err
	}

	return sanitizeSchemaStructure(compiled, includeSchemaMetadata), nil
}

// profileToExternalVars resolves {active_profile, profiles} into the flat
// config map for the selected profile, then splits it into ext-vars
// (strings) and ext-codes (everything else, JSON-serialized).
func profileToExternalVars(profileBundle map[string]any) (map[string]string, map[string]string, error) {
	config := map[string]any{}
	if activeProfile, ok := profileBundle["active_profile"]; ok {
		if profiles, ok := profileBundle["profiles"].(map[string]any); ok {
			if name, ok := activeProfile.(string); ok {
				if selected, ok := profiles[name].(map[string]any); ok {
					config = selected
				}
			}
		}
	}

	extVars := map[string]string{}
	extCodes := map[string]string{}
	for k, v := range config {
		if s, ok := v.(string); ok {
			extVars[k] = s
			continue
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, nil, perr.Wrap(perr.KindSchemaCompile, "failed to encode profile value for "+k, err).WithField(k)
		}
		extCodes[k] = string(encoded)
	}
	return extVars, extCodes, nil
}

// sanitizeSchemaStructure normalizes a compiled DSL-C result into a proper
// JSON-Schema document shape. It is a no-op when compiled looks like a
// DSL-C result carrying functions (validated already by evaluateDSLC, which
// only accepts pure-JSON output — so in practice this path is unreachable,
// but the check is kept because the distinction is part of the compiled
// result's documented contract, not an artifact of this particular host
// library).
func sanitizeSchemaStructure(compiled map[string]any, includeSchemaMetadata bool) map[string]any {
	if looksLikeFunctionCarryingDSLC(compiled) {
		return compiled
	}

	_, hasSchema := compiled["$schema"]
	objType, _ := compiled["type"].(string)
	_, hasProperties := compiled["properties"]

	if hasSchema || objType == "object" || hasProperties {
		out := copyMap(compiled)
		if !hasProperties {
			return out
		}
		if !includeSchemaMetadata {
			delete(out, "$schema")
		}
		if _, ok := out["type"]; !ok {
			out["type"] = "object"
		}
		return out
	}

	out := map[string]any{}
	properties := map[string]any{}
	for k, v := range compiled {
		if standardJSONSchemaKeywords[k] {
			out[k] = v
			continue
		}
		properties[k] = v
	}
	out["type"] = "object"
	out["properties"] = properties
	if !includeSchemaMetadata {
		delete(out, "$schema")
	}
	return out
}

func looksLikeFunctionCarryingDSLC(compiled map[string]any) bool {
	_, ok := compiled["__pantheon_function__"]
	return ok
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
