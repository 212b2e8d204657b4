package workspace

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/pantheon-run/pantheon/pkg/constants"
	"github.com/pantheon-run/pantheon/pkg/perr"
)

// SetTeamData loads team-data.yaml, applies deletes (no-op on missing
// dot-keys), then deep-merges updates — each dot-key expanding into nested
// maps, each string value type-coerced per spec.md §4.4 — and rewrites the
// file.
func (w *Workspace) SetTeamData(updates map[string]string, deletes []string) error {
	path := filepath.Join(w.teamPackageDir(""), constants.TeamDataFile)

	var doc map[string]any
	if content, err := w.fs.ReadText(path); err == nil {
		if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
			return perr.Wrap(perr.KindInvalidConfig, "invalid team-data.yaml", err).WithPath(path)
		}
	}
	if doc == nil {
		doc = map[string]any{}
	}

	for _, key := range deletes {
		deleteDotKey(doc, strings.Split(key, "."))
	}
	for key, raw := range updates {
		setDotKey(doc, strings.Split(key, "."), coerce(raw))
	}

	encoded, err := yaml.Marshal(doc)
	if err != nil {
		return perr.Wrap(perr.KindEncode, "failed to encode team-data.yaml", err).WithPath(path)
	}
	return w.fs.WriteText(path, string(encoded))
}

// deleteDotKey removes the value at the dotted key path, doing nothing if
// any intermediate segment is absent or not itself a map.
func deleteDotKey(doc map[string]any, segments []string) {
	if len(segments) == 0 {
		return
	}
	if len(segments) == 1 {
		delete(doc, segments[0])
		return
	}
	child, ok := doc[segments[0]].(map[string]any)
	if !ok {
		return
	}
	deleteDotKey(child, segments[1:])
}

// setDotKey writes value at the dotted key path, creating intermediate maps
// as needed and overwriting any non-map value found along the way.
func setDotKey(doc map[string]any, segments []string, value any) {
	if len(segments) == 1 {
		doc[segments[0]] = value
		return
	}
	child, ok := doc[segments[0]].(map[string]any)
	if !ok {
		child = map[string]any{}
		doc[segments[0]] = child
	}
	setDotKey(child, segments[1:], value)
}

var integerLiteral = func(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i = 1
	}
	if i >= len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// coerce applies spec.md §4.4's string-to-typed-value rules: booleans,
// plain integers, single-dot floats, and otherwise the string unchanged
// (e.g. "1.2.3" or "01" stay strings, since neither is unambiguous).
func coerce(raw string) any {
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	if integerLiteral(raw) && !hasLeadingZero(raw) {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	if strings.Count(raw, ".") == 1 {
		parts := strings.SplitN(raw, ".", 2)
		if integerLiteral(parts[0]) && integerLiteral(parts[1]) && parts[1] != "" && !hasLeadingZero(parts[0]) {
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				return f
			}
		}
	}
	return raw
}

// hasLeadingZero reports whether s (an integerLiteral) has a redundant
// leading zero, e.g. "01" — those are kept as strings since they read as
// identifiers (ticket numbers, zip codes) rather than numbers.
func hasLeadingZero(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	return i+1 < len(s) && s[i] == '0'
}
