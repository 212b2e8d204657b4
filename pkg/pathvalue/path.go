// Package pathvalue implements PathValue (SPEC_FULL.md §4.1): a protection
// proxy that makes "cannot do I/O with this path" a type-level property.
// PathValue can never wrap an absolute path or a ".." component, and it
// exposes only pure path arithmetic — no Open/Read/Write/Mkdir/Exists.
// Unwrapping to a native path is a package-private capability, granted only
// to pkg/workspace via UnwrapForWorkspace.
package pathvalue

import (
	"path"
	"strings"

	"github.com/pantheon-run/pantheon/pkg/perr"
)

// PathValue is an immutable, relative-only path below some implicit root.
// Equality (see Equal) is by the forward-slash-normalized string form.
type PathValue struct {
	// parts holds path segments already split on "/"; joined with "/" this
	// is the canonical string form returned by String().
	parts []string
}

// New constructs a PathValue from one or more string segments. Each segment
// may itself contain "/"; it is split and every resulting component is
// validated. Empty segments and empty or "." components are dropped. Fails
// with a perr.KindBadPath error if: no segments are given, any segment is
// absolute, any component is literally "..", or no component remains.
func New(segments ...string) (PathValue, error) {
	if len(segments) == 0 {
		return PathValue{}, perr.New(perr.KindBadPath, "PathValue requires at least one segment")
	}

	var parts []string
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if isAbsoluteString(seg) {
			return PathValue{}, perr.New(perr.KindBadPath, "absolute paths are not allowed").WithPath(seg)
		}
		for _, comp := range strings.Split(filepathSlash(seg), "/") {
			if comp == "" || comp == "." {
				continue
			}
			if comp == ".." {
				return PathValue{}, perr.New(perr.KindBadPath, "path components cannot be '..'").WithPath(seg)
			}
			parts = append(parts, comp)
		}
	}

	if len(parts) == 0 {
		return PathValue{}, perr.New(perr.KindBadPath, "PathValue cannot be empty")
	}

	return PathValue{parts: parts}, nil
}

// MustNew panics on invalid input; reserved for constant/literal paths
// known at compile time (e.g. scaffolder default filenames).
func MustNew(segments ...string) PathValue {
	p, err := New(segments...)
	if err != nil {
		panic(err)
	}
	return p
}

// filepathSlash normalizes backslashes to forward slashes so construction
// rejects Windows-style traversal the same way as POSIX-style traversal.
func filepathSlash(s string) string {
	return strings.ReplaceAll(s, "\\", "/")
}

func isAbsoluteString(s string) bool {
	n := filepathSlash(s)
	if strings.HasPrefix(n, "/") {
		return true
	}
	// Windows drive letter, e.g. "C:/..." or "C:\\..."
	if len(n) >= 2 && n[1] == ':' {
		return true
	}
	return false
}

// String renders the path with forward slashes, regardless of host OS.
func (p PathValue) String() string {
	return strings.Join(p.parts, "/")
}

// Parts returns a copy of the path's components.
func (p PathValue) Parts() []string {
	out := make([]string, len(p.parts))
	copy(out, p.parts)
	return out
}

// Name returns the final path component, or "" for a zero-value PathValue.
func (p PathValue) Name() string {
	if len(p.parts) == 0 {
		return ""
	}
	return p.parts[len(p.parts)-1]
}

// Stem returns Name() with its final suffix (if any) removed.
func (p PathValue) Stem() string {
	name := p.Name()
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext)
}

// Suffix returns the final path component's extension, including the dot,
// or "" if there is none.
func (p PathValue) Suffix() string {
	return path.Ext(p.Name())
}

// Parent returns the PathValue without its final component. Calling Parent
// on a single-component PathValue returns the zero value with ok=false —
// there is no relative parent above the implicit root.
func (p PathValue) Parent() (PathValue, bool) {
	if len(p.parts) <= 1 {
		return PathValue{}, false
	}
	return PathValue{parts: append([]string(nil), p.parts[:len(p.parts)-1]...)}, true
}

// Joinpath returns a new PathValue with additional segments appended.
// Segments may be plain strings or other PathValues.
func (p PathValue) Joinpath(segments ...any) (PathValue, error) {
	all := append([]string{p.String()}, toStrings(segments)...)
	return New(all...)
}

func toStrings(segments []any) []string {
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		switch v := s.(type) {
		case PathValue:
			out = append(out, v.String())
		case string:
			out = append(out, v)
		}
	}
	return out
}

// WithSuffix returns a new PathValue whose final component's extension is
// replaced by suffix (which should include the leading dot, or be empty to
// remove the extension entirely).
func (p PathValue) WithSuffix(suffix string) (PathValue, error) {
	if len(p.parts) == 0 {
		return PathValue{}, perr.New(perr.KindBadPath, "cannot set suffix on an empty PathValue")
	}
	newName := strings.TrimSuffix(p.Name(), p.Suffix()) + suffix
	newParts := append([]string(nil), p.parts[:len(p.parts)-1]...)
	newParts = append(newParts, newName)
	return New(strings.Join(newParts, "/"))
}

// RelativeTo returns the PathValue expressing p relative to other. Both
// must share other's full part sequence as a prefix of p's.
func (p PathValue) RelativeTo(other PathValue) (PathValue, error) {
	if len(other.parts) > len(p.parts) {
		return PathValue{}, perr.New(perr.KindBadPath, "path is not relative to the given base").WithPath(p.String())
	}
	for i, part := range other.parts {
		if p.parts[i] != part {
			return PathValue{}, perr.New(perr.KindBadPath, "path is not relative to the given base").WithPath(p.String())
		}
	}
	rest := p.parts[len(other.parts):]
	if len(rest) == 0 {
		return PathValue{}, perr.New(perr.KindBadPath, "relative path would be empty")
	}
	return PathValue{parts: append([]string(nil), rest...)}, nil
}

// IsAbsolute always returns false: construction guarantees it.
func (p PathValue) IsAbsolute() bool { return false }

// Equal compares two PathValues by their normalized string form.
func (p PathValue) Equal(other PathValue) bool {
	return p.String() == other.String()
}

// unwrapper is implemented only by pkg/workspace's private accessor type,
// which pkg/pathvalue trusts via UnwrapForWorkspace below.
type unwrapper interface {
	privatePantheonWorkspaceUnwrapToken()
}

// UnwrapForWorkspace returns the path's string form for I/O use. It takes
// an unwrapper token so that only a caller holding one — in practice only
// pkg/workspace, which defines the token type — can call this without the
// compiler flagging a type mismatch. This is the *only* sanctioned way to
// turn a PathValue into something an os.* call can consume.
func UnwrapForWorkspace(p PathValue, _ unwrapper) string {
	return p.String()
}
