package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielEbert/lineCompletion/pkg/syntax"
	"github.com/DanielEbert/lineCompletion/pkg/treecache"
)

const sample = `import os

def alpha():
    x = 1
    return x

def beta():
    # alpha mentioned in a comment
    return 2

class Outer:
    class Inner:
        def method(self):
            pass
`

func newTestResolver(t *testing.T, content string) (*Resolver, string) {
	t.Helper()
	cache, err := treecache.New()
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	path := filepath.Join(t.TempDir(), "sample.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return New(cache), path
}

func TestResolveFunctionBody(t *testing.T) {
	r, path := newTestResolver(t, sample)

	res, err := r.Resolve(path, syntax.Point{Row: 3, Column: 4}, syntax.Point{Row: 3, Column: 5}, "", false)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, syntax.Point{Row: 2, Column: 0}, res.Start)
	assert.Contains(t, res.Text, "def alpha():")
	assert.Contains(t, res.Text, "return x")
	assert.NotContains(t, res.Text, "beta")
}

func TestResolveMissOnImportRange(t *testing.T) {
	r, path := newTestResolver(t, sample)

	res, err := r.Resolve(path, syntax.Point{Row: 0, Column: 0}, syntax.Point{Row: 0, Column: 6}, "", false)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestResolveMissPastEndOfFile(t *testing.T) {
	r, path := newTestResolver(t, sample)

	res, err := r.Resolve(path, syntax.Point{Row: 500, Column: 0}, syntax.Point{Row: 500, Column: 1}, "", false)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestResolveNameHintMatches(t *testing.T) {
	r, path := newTestResolver(t, sample)

	res, err := r.Resolve(path, syntax.Point{Row: 3, Column: 4}, syntax.Point{Row: 3, Column: 5}, "alph", false)
	require.NoError(t, err)
	require.NotNil(t, res, "hint is a substring of the definition name")
}

func TestResolveNameHintCommentFalsePositive(t *testing.T) {
	r, path := newTestResolver(t, sample)

	// The hint occurs only in a comment inside beta; the enclosing definition
	// is named beta, so the hint check must reject it.
	res, err := r.Resolve(path, syntax.Point{Row: 7, Column: 6}, syntax.Point{Row: 7, Column: 11}, "alpha", false)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestResolveExpandToClass(t *testing.T) {
	r, path := newTestResolver(t, sample)

	res, err := r.Resolve(path, syntax.Point{Row: 13, Column: 12}, syntax.Point{Row: 13, Column: 13}, "", true)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, syntax.Point{Row: 10, Column: 0}, res.Start)
	assert.Contains(t, res.Text, "class Outer:")
	assert.Contains(t, res.Text, "class Inner:")
}

func TestResolveDeterministic(t *testing.T) {
	r, path := newTestResolver(t, sample)

	first, err := r.Resolve(path, syntax.Point{Row: 4, Column: 4}, syntax.Point{Row: 4, Column: 10}, "", false)
	require.NoError(t, err)
	second, err := r.Resolve(path, syntax.Point{Row: 4, Column: 4}, syntax.Point{Row: 4, Column: 10}, "", false)
	require.NoError(t, err)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first, second)
}
