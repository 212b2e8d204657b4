// Package filesystem implements the narrow, stateless, mockable I/O port
// described in SPEC_FULL.md §4.3. FileSystem is the only component in the
// core allowed to touch the host filesystem; everything above it (pkg/workspace)
// deals exclusively in pathvalue.PathValue and native strings it has already
// validated.
package filesystem

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pantheon-run/pantheon/pkg/perr"
)

// FileSystem is the I/O port Workspace is built on. All paths passed in are
// native, absolute strings — Workspace has already unwrapped and validated
// any PathValue before calling here. Implementations must be safe for
// concurrent use; all state lives in call parameters.
type FileSystem interface {
	ReadText(path string) (string, error)
	WriteText(path string, content string) error
	AppendText(path string, content string) error
	Exists(path string) bool
	IsDir(path string) bool
	Mkdir(path string, parents bool, existOK bool) error
	Rmdir(path string) error
	Unlink(path string, missingOK bool) error
	Iterdir(path string) ([]string, error)
	Glob(directory string, pattern string) ([]string, error)
	ReadBundledResource(resourcePath string) (string, error)
}

// OSFileSystem is the production FileSystem backed by the host OS and the
// module's embedded default-routine bundle.
type OSFileSystem struct {
	bundle embed.FS
	// bundleRoot is the directory inside bundle that ReadBundledResource
	// paths are resolved under (mirrors the teacher's go:embed convention
	// in pkg/workflow/js.go of embedding a subtree and joining paths into it).
	bundleRoot string
}

// NewOSFileSystem constructs the production FileSystem. bundle and
// bundleRoot are normally internal/bundled.Resources and its root; callers
// outside tests should use internal/bundled.FileSystem() instead of calling
// this directly.
func NewOSFileSystem(bundle embed.FS, bundleRoot string) *OSFileSystem {
	return &OSFileSystem{bundle: bundle, bundleRoot: bundleRoot}
}

func (f *OSFileSystem) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", wrapOSError(path, err)
	}
	return string(data), nil
}

func (f *OSFileSystem) WriteText(path string, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return wrapOSError(path, err)
	}
	return nil
}

func (f *OSFileSystem) AppendText(path string, content string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return wrapOSError(path, err)
	}
	defer file.Close()
	if _, err := file.WriteString(content); err != nil {
		return perr.Wrap(perr.KindEncode, "failed to append text", err).WithPath(path)
	}
	return nil
}

func (f *OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (f *OSFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (f *OSFileSystem) Mkdir(path string, parents bool, existOK bool) error {
	if parents {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return wrapOSError(path, err)
		}
		return nil
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		if os.IsExist(err) && existOK {
			return nil
		}
		return wrapOSError(path, err)
	}
	return nil
}

func (f *OSFileSystem) Rmdir(path string) error {
	if err := os.Remove(path); err != nil {
		return wrapOSError(path, err)
	}
	return nil
}

func (f *OSFileSystem) Unlink(path string, missingOK bool) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) && missingOK {
			return nil
		}
		return wrapOSError(path, err)
	}
	return nil
}

func (f *OSFileSystem) Iterdir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, wrapOSError(path, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, filepath.Join(path, e.Name()))
	}
	return out, nil
}

func (f *OSFileSystem) Glob(directory string, pattern string) ([]string, error) {
	info, err := os.Stat(directory)
	if err != nil {
		return nil, wrapOSError(directory, err)
	}
	if !info.IsDir() {
		return nil, perr.New(perr.KindNotFound, "not a directory").WithPath(directory)
	}
	matches, err := filepath.Glob(filepath.Join(directory, pattern))
	if err != nil {
		return nil, perr.Wrap(perr.KindNotFound, "invalid glob pattern", err).WithPath(pattern)
	}
	return matches, nil
}

func (f *OSFileSystem) ReadBundledResource(resourcePath string) (string, error) {
	data, err := fs.ReadFile(f.bundle, filepath.Join(f.bundleRoot, resourcePath))
	if err != nil {
		return "", perr.Wrap(perr.KindNotFound, "bundled resource not found", err).WithPath(resourcePath)
	}
	return string(data), nil
}

func wrapOSError(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return perr.Wrap(perr.KindNotFound, "no such file or directory", err).WithPath(path)
	case os.IsPermission(err):
		return perr.Wrap(perr.KindPermissionDenied, "permission denied", err).WithPath(path)
	case os.IsExist(err):
		return perr.Wrap(perr.KindAlreadyExists, "already exists", err).WithPath(path)
	default:
		return perr.Wrap(perr.KindDecode, "filesystem error", err).WithPath(path)
	}
}
