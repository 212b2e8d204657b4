package artifactengine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectOperationTypeCreate(t *testing.T) {
	kind, err := DetectOperationType(map[string]string{"content": "", "placement": "", "naming": ""})
	require.NoError(t, err)
	require.Equal(t, OpCreate, kind)
}

func TestDetectOperationTypeUpdate(t *testing.T) {
	kind, err := DetectOperationType(map[string]string{"patch": "", "locator": "", "parser": "", "target": ""})
	require.NoError(t, err)
	require.Equal(t, OpUpdate, kind)
}

func TestDetectOperationTypeRetrieve(t *testing.T) {
	kind, err := DetectOperationType(map[string]string{"locator": "", "parser": "", "sections": ""})
	require.NoError(t, err)
	require.Equal(t, OpRetrieve, kind)
}

func TestDetectOperationTypeAmbiguousFails(t *testing.T) {
	_, err := DetectOperationType(map[string]string{"foo": "bar"})
	require.Error(t, err)
}

func TestCompileProfileBundleEmptyContentYieldsEmptyBundle(t *testing.T) {
	bundle, err := CompileProfileBundle("")
	require.NoError(t, err)
	require.Empty(t, bundle)
}

func TestCompileProfileBundleEvaluatesJsonnet(t *testing.T) {
	bundle, err := CompileProfileBundle(`{active_profile: "a", profiles: {a: {max_length: 10}}}`)
	require.NoError(t, err)
	require.Equal(t, "a", bundle["active_profile"])
}

func TestCompileSchemaRejectsEmptyContent(t *testing.T) {
	_, err := CompileSchema("   ", nil, "create-ticket", false)
	require.Error(t, err)
}

func TestCompileSchemaWrapsBareKeysIntoProperties(t *testing.T) {
	schema, err := CompileSchema(`{title: {type: "string"}}`, nil, "create-ticket", false)
	require.NoError(t, err)
	require.Equal(t, "object", schema["type"])
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, props, "title")
}

func TestCompileSchemaPassesThroughAlreadyShapedSchema(t *testing.T) {
	schema, err := CompileSchema(`{type: "object", properties: {title: {type: "string"}}}`, nil, "create-ticket", false)
	require.NoError(t, err)
	require.Equal(t, "object", schema["type"])
	_, hasSchemaKey := schema["$schema"]
	require.False(t, hasSchemaKey)
}

func TestCompileSchemaIncludesSchemaMetadataWhenRequested(t *testing.T) {
	schema, err := CompileSchema(`{"$schema": "https://json-schema.org/draft/2020-12/schema", type: "object", properties: {}}`, nil, "create-ticket", true)
	require.NoError(t, err)
	require.Contains(t, schema, "$schema")
}

func TestCompileSchemaWiresProfileStringAsExtVar(t *testing.T) {
	profileBundle := map[string]any{
		"active_profile": "default",
		"profiles": map[string]any{
			"default": map[string]any{"kind": "bug"},
		},
	}
	schema, err := CompileSchema(`{kind_default: {type: "string", const: std.extVar("kind")}}`, profileBundle, "create-ticket", false)
	require.NoError(t, err)
	props := schema["properties"].(map[string]any)
	field := props["kind_default"].(map[string]any)
	require.Equal(t, "bug", field["const"])
}
