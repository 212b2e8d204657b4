package workspace

import (
	"encoding/json"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pantheon-run/pantheon/pkg/constants"
	"github.com/pantheon-run/pantheon/pkg/pathsafety"
	"github.com/pantheon-run/pantheon/pkg/pathvalue"
	"github.com/pantheon-run/pantheon/pkg/perr"
)

// clock lets tests pin create_tempfile's timestamp component without
// touching the real wall clock; production code never overrides it.
var clock = time.Now

// newUUID is overridable the same way, for deterministic temp-file tests.
var newUUID = func() string { return uuid.NewString() }

// artifactAbsPath resolves a sandboxed PathValue to an absolute native path
// under artifacts_root, rejecting traversal/absolute input via PathValue's
// own construction guarantees (it never needs to be re-validated).
func (w *Workspace) artifactAbsPath(p pathvalue.PathValue) string {
	return filepath.Join(w.artifactsRootAbs, filepath.FromSlash(w.unwrap(p)))
}

// isInsideAudit reports whether p falls under the configured audit
// subdirectory of artifacts_root.
func (w *Workspace) isInsideAudit(p pathvalue.PathValue) bool {
	auditDir := w.config.AuditDirectory
	if auditDir == "" {
		return false
	}
	parts := p.Parts()
	return len(parts) > 0 && parts[0] == auditDir
}

// SaveArtifact validates path, ensures its parent directory exists, writes
// content, and returns path (relative to artifacts_root) unchanged. Writes
// into the audit directory are refused with Security.
func (w *Workspace) SaveArtifact(content string, p pathvalue.PathValue) (pathvalue.PathValue, error) {
	if w.isInsideAudit(p) {
		return pathvalue.PathValue{}, perr.New(perr.KindSecurity, "cannot write directly into the audit directory").WithPath(p.String())
	}
	abs := w.artifactAbsPath(p)
	if err := w.fs.Mkdir(filepath.Dir(abs), true, true); err != nil {
		return pathvalue.PathValue{}, err
	}
	if err := w.fs.WriteText(abs, content); err != nil {
		return pathvalue.PathValue{}, err
	}
	w.log.Printf("saved artifact %s", p.String())
	return p, nil
}

// AppendJSONLEntry serializes data as one compact JSON object and appends
// it, newline-terminated, to the file at p (created if absent).
func (w *Workspace) AppendJSONLEntry(data any, p pathvalue.PathValue) (pathvalue.PathValue, error) {
	if w.isInsideAudit(p) {
		return pathvalue.PathValue{}, perr.New(perr.KindSecurity, "cannot write directly into the audit directory").WithPath(p.String())
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return pathvalue.PathValue{}, perr.Wrap(perr.KindEncode, "failed to encode JSONL entry", err).WithPath(p.String())
	}
	abs := w.artifactAbsPath(p)
	if err := w.fs.Mkdir(filepath.Dir(abs), true, true); err != nil {
		return pathvalue.PathValue{}, err
	}
	if err := w.fs.AppendText(abs, string(encoded)+"\n"); err != nil {
		return pathvalue.PathValue{}, err
	}
	return p, nil
}

// CreateTempfile generates (without creating) a path under the temp
// sandbox subdirectory: temp/<YYYY-MM-DD_HH-MM>_<prefix?>_<UUID><suffix?>.
func (w *Workspace) CreateTempfile(suffix, prefix string) (pathvalue.PathValue, error) {
	stamp := clock().Format("2006-01-02_15-04")
	name := stamp
	if prefix != "" {
		name += "_" + prefix
	}
	name += "_" + newUUID()
	name += suffix
	return pathvalue.New(constants.TempSubdirectory, name)
}

// CleanupTempFile unlinks filePath if it resolves inside the temp
// subdirectory and the configured cleanup policy allows it for this
// execution outcome. All errors are swallowed: cleanup is best-effort.
func (w *Workspace) CleanupTempFile(filePathString string, executionSuccess bool) {
	policy := w.config.TempFileCleanup
	switch policy {
	case CleanupNever:
		return
	case CleanupOnFailure:
		if executionSuccess {
			return
		}
	}

	p, err := pathvalue.New(filePathString)
	if err != nil {
		w.log.Printf("cleanup skipped, invalid path %q: %v", filePathString, err)
		return
	}
	parts := p.Parts()
	if len(parts) == 0 || parts[0] != constants.TempSubdirectory {
		w.log.Printf("cleanup skipped, not inside temp subdirectory: %q", filePathString)
		return
	}
	if err := w.fs.Unlink(w.artifactAbsPath(p), true); err != nil {
		w.log.Printf("cleanup failed for %q: %v", filePathString, err)
	}
}

// ReadArtifactFile validates and reads the file at p, refusing reads inside
// the audit directory with Security.
func (w *Workspace) ReadArtifactFile(p pathvalue.PathValue) (string, error) {
	if w.isInsideAudit(p) {
		return "", perr.New(perr.KindSecurity, "cannot read directly from the audit directory").WithPath(p.String())
	}
	return w.fs.ReadText(w.artifactAbsPath(p))
}

// GetMatchingArtifact walks directory (or all of artifacts_root when empty)
// looking for filenames matching pattern. Any failure — bad regex, missing
// directory, walk error — yields an empty result and a logged warning,
// never an error return, per spec.md §4.4.
func (w *Workspace) GetMatchingArtifact(pattern string, directory string) []pathvalue.PathValue {
	re, err := regexp.Compile(pattern)
	if err != nil {
		w.log.Printf("get_matching_artifact: invalid pattern %q: %v", pattern, err)
		return nil
	}

	searchRootAbs := w.artifactsRootAbs
	recursive := true
	if directory != "" {
		if err := pathsafety.ValidateDirectoryParam(directory); err != nil {
			w.log.Printf("get_matching_artifact: rejected directory %q: %v", directory, err)
			return nil
		}
		dirPattern := ""
		if strings.ContainsAny(directory, "*?[") {
			dirPattern = directory
			directory = ""
		}
		if directory != "" {
			searchRootAbs = filepath.Join(w.artifactsRootAbs, directory)
			recursive = false
		} else if dirPattern != "" {
			matches, err := w.fs.Glob(w.artifactsRootAbs, dirPattern)
			if err != nil {
				w.log.Printf("get_matching_artifact: glob failed: %v", err)
				return nil
			}
			var out []pathvalue.PathValue
			for _, m := range matches {
				out = append(out, w.matchUnderDir(m, re)...)
			}
			return out
		}
	}

	if !w.fs.Exists(searchRootAbs) {
		w.log.Printf("get_matching_artifact: directory does not exist: %s", searchRootAbs)
		return nil
	}

	if !recursive {
		return w.matchUnderDir(searchRootAbs, re)
	}
	return w.walkMatch(searchRootAbs, re)
}

func (w *Workspace) matchUnderDir(dirAbs string, re *regexp.Regexp) []pathvalue.PathValue {
	entries, err := w.fs.Iterdir(dirAbs)
	if err != nil {
		w.log.Printf("get_matching_artifact: cannot list %s: %v", dirAbs, err)
		return nil
	}
	var out []pathvalue.PathValue
	for _, entryAbs := range entries {
		if w.fs.IsDir(entryAbs) {
			continue
		}
		if re.MatchString(filepath.Base(entryAbs)) {
			if p, err := w.relativeArtifactPath(entryAbs); err == nil {
				out = append(out, p)
			}
		}
	}
	return out
}

func (w *Workspace) walkMatch(rootAbs string, re *regexp.Regexp) []pathvalue.PathValue {
	var out []pathvalue.PathValue
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := w.fs.Iterdir(dir)
		if err != nil {
			return err
		}
		for _, entryAbs := range entries {
			if w.fs.IsDir(entryAbs) {
				if err := walk(entryAbs); err != nil {
					return err
				}
				continue
			}
			if re.MatchString(filepath.Base(entryAbs)) {
				if p, err := w.relativeArtifactPath(entryAbs); err == nil {
					out = append(out, p)
				}
			}
		}
		return nil
	}
	if err := walk(rootAbs); err != nil {
		w.log.Printf("get_matching_artifact: walk failed: %v", err)
		return nil
	}
	return out
}

func (w *Workspace) relativeArtifactPath(entryAbs string) (pathvalue.PathValue, error) {
	rel, err := filepath.Rel(w.artifactsRootAbs, entryAbs)
	if err != nil {
		return pathvalue.PathValue{}, err
	}
	return pathvalue.New(path.Clean(filepath.ToSlash(rel)))
}

// ReadArtifactID reads the plain-text id ledger at artifacts_root/.artifact_id.json.
func (w *Workspace) ReadArtifactID() (string, error) {
	return w.fs.ReadText(filepath.Join(w.artifactsRootAbs, constants.IdLedgerFile))
}

// SaveArtifactID overwrites the id ledger with content.
func (w *Workspace) SaveArtifactID(content string) error {
	abs := filepath.Join(w.artifactsRootAbs, constants.IdLedgerFile)
	if err := w.fs.Mkdir(filepath.Dir(abs), true, true); err != nil {
		return err
	}
	return w.fs.WriteText(abs, content)
}

// SaveAuditLog is a no-op when auditing is disabled; otherwise it ensures
// the audit directory exists and appends one JSON line to today's file.
func (w *Workspace) SaveAuditLog(event map[string]any) error {
	if !w.config.AuditEnabled {
		return nil
	}
	encoded, err := json.Marshal(event)
	if err != nil {
		return perr.Wrap(perr.KindEncode, "failed to encode audit event", err)
	}
	auditDirAbs := filepath.Join(w.artifactsRootAbs, w.config.AuditDirectory)
	if err := w.fs.Mkdir(auditDirAbs, true, true); err != nil {
		return err
	}
	fileName := clock().Format("2006-01-02") + constants.AuditFileSuffix
	abs := filepath.Join(auditDirAbs, fileName)
	return w.fs.AppendText(abs, string(encoded)+"\n")
}
