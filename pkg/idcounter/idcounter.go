// Package idcounter implements IdCounter (SPEC_FULL.md §4.6): a
// best-effort, per-team, per-process monotonic integer counter persisted
// as a JSON sidecar inside the artifact sandbox.
package idcounter

import (
	"encoding/json"

	"github.com/pantheon-run/pantheon/pkg/logger"
)

var log = logger.New("idcounter")

// Ledger reads and writes the raw ledger file contents. Workspace satisfies
// this with its ReadArtifactID/SaveArtifactID methods; IdCounter is kept
// decoupled from Workspace's concrete type so it has no I/O state of its own.
type Ledger interface {
	ReadArtifactID() (string, error)
	SaveArtifactID(content string) error
}

// Counter issues monotonically increasing integers per (team, process).
type Counter struct {
	ledger Ledger
}

// New constructs a Counter backed by the given Ledger.
func New(ledger Ledger) *Counter {
	return &Counter{ledger: ledger}
}

// data is the on-disk shape: team -> process -> counter.
type data map[string]map[string]int

// GetNext resolves team (defaulting to "default" when empty), increments
// ledger[team][process], persists the ledger, and returns the new value.
// Corrupt or unparseable ledger contents are silently reinitialized to an
// empty ledger rather than surfaced as an error — the ledger is a hint, not
// a source of truth the framework depends on for correctness.
func (c *Counter) GetNext(team, process string) (int, error) {
	if team == "" {
		team = "default"
	}

	d := c.load()

	if d[team] == nil {
		d[team] = make(map[string]int)
	}
	d[team][process] = d[team][process] + 1
	next := d[team][process]

	encoded, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return 0, err
	}
	if err := c.ledger.SaveArtifactID(string(encoded)); err != nil {
		return 0, err
	}

	log.Printf("issued id %d for team=%s process=%s", next, team, process)
	return next, nil
}

func (c *Counter) load() data {
	raw, err := c.ledger.ReadArtifactID()
	if err != nil {
		log.Printf("ledger unreadable, reinitializing: %v", err)
		return data{}
	}
	var d data
	if err := json.Unmarshal([]byte(raw), &d); err != nil || d == nil {
		log.Printf("ledger unparseable, reinitializing: %v", err)
		return data{}
	}
	return d
}
