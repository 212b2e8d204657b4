// Package perr defines the error kinds a pantheon core API can return, per
// SPEC_FULL.md §7. Each kind is a Kind value carried by the single concrete
// *Error type, which holds the contextual fields callers need (process,
// path, field, schema-constraint path) and wraps an underlying cause where
// one exists, in the same spirit as the
// teacher wrapping santhosh-tekuri/jsonschema validation errors with
// fmt.Errorf("...: %w", err).
package perr

import "fmt"

// Kind tags which of the spec's error kinds an error belongs to, so callers
// can branch with errors.As without string matching on messages.
type Kind string

const (
	KindBadPath            Kind = "bad_path"
	KindPathSecurity       Kind = "path_security"
	KindSecurity           Kind = "security"
	KindNotFound           Kind = "not_found"
	KindAlreadyExists      Kind = "already_exists"
	KindPermissionDenied   Kind = "permission_denied"
	KindDecode             Kind = "decode_error"
	KindEncode             Kind = "encode_error"
	KindCircularImport     Kind = "circular_import"
	KindSchemaCompile      Kind = "schema_compile"
	KindSchemaValidation   Kind = "schema_validation"
	KindTemplateRender     Kind = "template_render"
	KindMalformedURI       Kind = "malformed_uri"
	KindUnsupportedScheme  Kind = "unsupported_scheme"
	KindOpDetect           Kind = "op_detect"
	KindMissingSection     Kind = "missing_section"
	KindInvalidConfig      Kind = "invalid_config"
	KindInvalidTemplateKey Kind = "invalid_template_keys"
)

// Error is the concrete error type returned by every fallible core API.
// Context fields are optional and populated as they're known; zero values
// are simply omitted from Error().
type Error struct {
	Kind    Kind
	Process string
	Path    string
	Field   string
	// ConstraintPath is the schema-constraint JSON pointer for SchemaValidation errors.
	ConstraintPath string
	Message        string
	Cause          error
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Message
	if e.Process != "" {
		msg += fmt.Sprintf(" (process=%s)", e.Process)
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" (field=%s)", e.Field)
	}
	if e.ConstraintPath != "" {
		msg += fmt.Sprintf(" (constraint=%s)", e.ConstraintPath)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is match by kind: a target *Error with no Message and no
// Cause (such as the Err* sentinels below) matches any *Error of the same
// Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message != "" || t.Cause != nil {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error for the given kind and message. With an empty
// message it is usable as an errors.Is sentinel (e.g.
// errors.Is(err, perr.New(perr.KindNotFound, ""))); it can also be fleshed
// out further with the With* helpers below.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) WithProcess(process string) *Error {
	e.Process = process
	return e
}

func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

func (e *Error) WithConstraintPath(path string) *Error {
	e.ConstraintPath = path
	return e
}

// sentinels, for errors.Is comparisons against a specific kind regardless
// of message/context (e.g. errors.Is(err, perr.ErrNotFound)).
var (
	ErrNotFound         = New(KindNotFound, "")
	ErrSecurity         = New(KindSecurity, "")
	ErrPathSecurity     = New(KindPathSecurity, "")
	ErrBadPath          = New(KindBadPath, "")
	ErrMissingSection   = New(KindMissingSection, "")
	ErrCircularImport   = New(KindCircularImport, "")
	ErrUnsupportedURI   = New(KindUnsupportedScheme, "")
	ErrMalformedURI     = New(KindMalformedURI, "")
	ErrOpDetect         = New(KindOpDetect, "")
	ErrSchemaValidation = New(KindSchemaValidation, "")
)
