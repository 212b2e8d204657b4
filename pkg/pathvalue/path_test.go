package pathvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsAbsolutePaths(t *testing.T) {
	cases := []string{"/etc/passwd", "C:/Windows", `C:\Windows`, "/a/b/c"}
	for _, c := range cases {
		_, err := New(c)
		require.Error(t, err, c)
	}
}

func TestNewRejectsTraversal(t *testing.T) {
	cases := []string{"..", "a/../b", "a/..", "../a"}
	for _, c := range cases {
		_, err := New(c)
		require.Error(t, err, c)
	}
}

func TestNewRejectsEmpty(t *testing.T) {
	_, err := New()
	require.Error(t, err)

	_, err = New("")
	require.Error(t, err)
}

func TestRoundTripsForwardSlashes(t *testing.T) {
	p, err := New("a", "b/c", "d.md")
	require.NoError(t, err)
	assert.Equal(t, "a/b/c/d.md", p.String())
}

func TestAccessors(t *testing.T) {
	p := MustNew("tasks/high/fix-bug.md")
	assert.Equal(t, "fix-bug.md", p.Name())
	assert.Equal(t, "fix-bug", p.Stem())
	assert.Equal(t, ".md", p.Suffix())

	parent, ok := p.Parent()
	require.True(t, ok)
	assert.Equal(t, "tasks/high", parent.String())
}

func TestParentOfSingleComponentHasNoParent(t *testing.T) {
	p := MustNew("file.md")
	_, ok := p.Parent()
	assert.False(t, ok)
}

func TestJoinpath(t *testing.T) {
	p := MustNew("tasks")
	joined, err := p.Joinpath("high", MustNew("fix-bug.md"))
	require.NoError(t, err)
	assert.Equal(t, "tasks/high/fix-bug.md", joined.String())
}

func TestWithSuffix(t *testing.T) {
	p := MustNew("notes/a.md")
	withTxt, err := p.WithSuffix(".txt")
	require.NoError(t, err)
	assert.Equal(t, "notes/a.txt", withTxt.String())
}

func TestRelativeTo(t *testing.T) {
	p := MustNew("tasks/high/fix-bug.md")
	base := MustNew("tasks")
	rel, err := p.RelativeTo(base)
	require.NoError(t, err)
	assert.Equal(t, "high/fix-bug.md", rel.String())

	_, err = base.RelativeTo(p)
	require.Error(t, err)
}

func TestIsAbsoluteAlwaysFalse(t *testing.T) {
	p := MustNew("a/b")
	assert.False(t, p.IsAbsolute())
}

func TestEqualityByNormalizedString(t *testing.T) {
	a := MustNew("a/b/c")
	b, err := New("a", "b", "c")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}
