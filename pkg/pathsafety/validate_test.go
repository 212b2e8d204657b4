package pathsafety

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSectionPathRejectsTraversal(t *testing.T) {
	cases := []string{"../x", "a/../../b", "%2e%2e/x", "%252e%252e/x"}
	for _, c := range cases {
		assert.Error(t, ValidateSectionPath(c), c)
	}
}

func TestValidateImportPathRejectsAbsolute(t *testing.T) {
	cases := []string{"/etc/passwd", "C:/Windows", `\x`}
	for _, c := range cases {
		assert.Error(t, ValidateImportPath(c), c)
	}
}

func TestValidateDirectoryParamAcceptsPlainRelative(t *testing.T) {
	assert.NoError(t, ValidateDirectoryParam("tasks/high"))
	assert.NoError(t, ValidateDirectoryParam("guides"))
}

func TestValidateRejectsEmpty(t *testing.T) {
	assert.Error(t, ValidateSectionPath(""))
}
