package idcounter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type memLedger struct {
	content string
	exists  bool
}

func (m *memLedger) ReadArtifactID() (string, error) {
	if !m.exists {
		return "", errNotFound{}
	}
	return m.content, nil
}

func (m *memLedger) SaveArtifactID(content string) error {
	m.content = content
	m.exists = true
	return nil
}

type errNotFound struct{}

func (errNotFound) Error() string { return "not found" }

func TestGetNextStartsAtOneAndIncrements(t *testing.T) {
	ledger := &memLedger{}
	c := New(ledger)

	first, err := c.GetNext("acme", "create-ticket")
	require.NoError(t, err)
	require.Equal(t, 1, first)

	second, err := c.GetNext("acme", "create-ticket")
	require.NoError(t, err)
	require.Equal(t, 2, second)
}

func TestGetNextIsolatesByTeamAndProcess(t *testing.T) {
	ledger := &memLedger{}
	c := New(ledger)

	_, _ = c.GetNext("acme", "create-ticket")
	_, _ = c.GetNext("acme", "create-ticket")
	first, err := c.GetNext("other-team", "create-ticket")
	require.NoError(t, err)
	require.Equal(t, 1, first)

	firstOtherProcess, err := c.GetNext("acme", "update-ticket")
	require.NoError(t, err)
	require.Equal(t, 1, firstOtherProcess)
}

func TestGetNextDefaultsEmptyTeam(t *testing.T) {
	ledger := &memLedger{}
	c := New(ledger)
	n, err := c.GetNext("", "create-ticket")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestGetNextReinitializesCorruptLedger(t *testing.T) {
	ledger := &memLedger{content: "{not json", exists: true}
	c := New(ledger)
	n, err := c.GetNext("acme", "create-ticket")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestGetNextReinitializesWrongShapedTeamEntry(t *testing.T) {
	ledger := &memLedger{content: `{"acme": "not-a-map"}`, exists: true}
	c := New(ledger)
	n, err := c.GetNext("acme", "create-ticket")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
