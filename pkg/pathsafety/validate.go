// Package pathsafety implements the core's traversal and absolute-path
// validators (SPEC_FULL.md §4.2). Three named entry points wrap a shared
// check so that callers get an error naming the specific context (section
// selector, import path, search directory) that rejected their input.
package pathsafety

import (
	"net/url"
	"strings"

	"github.com/pantheon-run/pantheon/pkg/logger"
	"github.com/pantheon-run/pantheon/pkg/perr"
)

var log = logger.New("pathsafety")

// ValidateSectionPath rejects traversal and absolute paths in a
// user-provided section sub-path (e.g. "billing/summary" in
// processes/<p>/artifact/<sub>.schema.jsonnet).
func ValidateSectionPath(path string) error {
	return validate(path, false, "section path")
}

// ValidateImportPath rejects traversal and absolute paths in a relative
// DSL-C/DSL-T import file name.
func ValidateImportPath(path string) error {
	return validate(path, false, "import path")
}

// ValidateDirectoryParam rejects traversal and absolute paths in a
// user-provided search subdirectory of the artifact sandbox.
func ValidateDirectoryParam(path string) error {
	return validate(path, false, "directory parameter")
}

// validate implements the five-point rejection algorithm from SPEC_FULL.md
// §4.2. allowAbsolute is always false for the three named validators above;
// it exists so a future caller with a legitimately absolute-capable context
// (there is none in this core) has somewhere to plug in.
func validate(path string, allowAbsolute bool, context string) error {
	if path == "" {
		log.Printf("rejecting empty path for %s", context)
		return perr.New(perr.KindPathSecurity, "path is empty").WithField(context)
	}

	candidates := []string{path}
	if decodedOnce, err := url.QueryUnescape(path); err == nil && decodedOnce != path {
		candidates = append(candidates, decodedOnce)
		if decodedTwice, err := url.QueryUnescape(decodedOnce); err == nil && decodedTwice != decodedOnce {
			candidates = append(candidates, decodedTwice)
		}
	}
	for _, candidate := range candidates {
		for _, comp := range strings.FieldsFunc(candidate, func(r rune) bool { return r == '/' || r == '\\' }) {
			if comp == ".." {
				log.Printf("rejecting traversal component in %s: %q", context, path)
				return perr.New(perr.KindPathSecurity, "path traversal is not allowed").WithField(context).WithPath(path)
			}
		}
	}

	if !allowAbsolute {
		if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\") {
			return perr.New(perr.KindPathSecurity, "absolute paths are not allowed").WithField(context).WithPath(path)
		}
		if len(path) >= 2 && path[1] == ':' {
			return perr.New(perr.KindPathSecurity, "absolute (drive-qualified) paths are not allowed").WithField(context).WithPath(path)
		}
	}

	return nil
}
