package artifactengine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/pantheon-run/pantheon/pkg/perr"
)

// Validate checks data against schema (a compiled JSON-Schema mapping,
// draft 2020-12), grounded on the teacher's compiler.AddResource/Compile
// pattern in pkg/parser/schema.go. On failure it raises SchemaValidation
// with every leaf constraint violation, each annotated with its dotted
// instance path, message, schema constraint path, and — for scalars — the
// offending value (or the container's type name otherwise).
func Validate(data any, schema map[string]any) error {
	compiler := jsonschema.NewCompiler()
	const resourceURL = "pantheon://compiled-schema.json"
	if err := compiler.AddResource(resourceURL, schema); err != nil {
		return perr.Wrap(perr.KindSchemaCompile, "failed to register compiled schema", err)
	}
	compiled, err := compiler.Compile(resourceURL)
	if err != nil {
		return perr.Wrap(perr.KindSchemaCompile, "failed to compile schema", err)
	}

	normalized, err := normalizeForValidation(data)
	if err != nil {
		return perr.Wrap(perr.KindEncode, "failed to normalize input for validation", err)
	}

	if err := compiled.Validate(normalized); err != nil {
		details := collectValidationDetails(err, normalized)
		return perr.New(perr.KindSchemaValidation, strings.Join(details, "; "))
	}
	return nil
}

// normalizeForValidation round-trips data through JSON so that, e.g., Go
// ints and YAML-decoded values present the same shape the schema compiler
// would have seen from DSL-C's own JSON output.
func normalizeForValidation(data any) (any, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectValidationDetails(err error, instance any) []string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{err.Error()}
	}

	var leaves []*jsonschema.ValidationError
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			leaves = append(leaves, e)
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)

	details := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		details = append(details, formatLeaf(leaf, instance))
	}
	return details
}

func formatLeaf(leaf *jsonschema.ValidationError, instance any) string {
	instancePath := "root"
	if len(leaf.InstanceLocation) > 0 {
		instancePath = strings.Join(leaf.InstanceLocation, ".")
	}
	constraintPath := strings.Join(leaf.KeywordLocation, "/")

	detail := fmt.Sprintf("%s: %s (at %s)", instancePath, leaf.Error(), constraintPath)

	if value, ok := navigateInstance(instance, leaf.InstanceLocation); ok {
		switch v := value.(type) {
		case map[string]any, []any:
			detail += fmt.Sprintf(" [%s]", typeName(v))
		default:
			if v != nil {
				detail += fmt.Sprintf(" [value=%v]", v)
			}
		}
	}
	return detail
}

func navigateInstance(instance any, path []string) (any, bool) {
	current := instance
	for _, segment := range path {
		switch v := current.(type) {
		case map[string]any:
			next, ok := v[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			return nil, false
		default:
			return nil, false
		}
	}
	return current, true
}

func typeName(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "scalar"
	}
}
