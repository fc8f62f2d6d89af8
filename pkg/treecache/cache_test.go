package treecache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// touchFuture pushes the mtime past the previous parse so the change is seen
// even when writes land within the clock's resolution.
func touchFuture(t *testing.T, path string) {
	t.Helper()
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))
}

func newTestCache(t *testing.T, opts ...Option) *Cache {
	t.Helper()
	c, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestGetCachesUnmodifiedFile(t *testing.T) {
	c := newTestCache(t)
	path := filepath.Join(t.TempDir(), "a.py")
	writeFile(t, path, "def foo():\n    pass\n")

	first, err := c.Get(path)
	require.NoError(t, err)
	defer first.Release()

	second, err := c.Get(path)
	require.NoError(t, err)
	defer second.Release()

	assert.Same(t, first, second, "unmodified file must return the cached entry")
	assert.Equal(t, 1, c.Len())
}

func TestGetReparsesAfterModification(t *testing.T) {
	c := newTestCache(t)
	path := filepath.Join(t.TempDir(), "a.py")
	writeFile(t, path, "def foo():\n    pass\n")

	first, err := c.Get(path)
	require.NoError(t, err)
	defer first.Release()

	writeFile(t, path, "def bar():\n    pass\n\ndef baz():\n    pass\n")
	touchFuture(t, path)

	second, err := c.Get(path)
	require.NoError(t, err)
	defer second.Release()

	assert.NotSame(t, first, second)
	assert.Contains(t, string(second.Src), "bar")
}

func TestHeldEntryUsableAfterReplacement(t *testing.T) {
	c := newTestCache(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	writeFile(t, path, "def foo():\n    return 1\n")

	held, err := c.Get(path)
	require.NoError(t, err)

	// Replace the entry while held is still in use, then churn the cache so
	// any prematurely freed tree would be recycled.
	writeFile(t, path, "def bar():\n    return 2\n")
	touchFuture(t, path)
	replacement, err := c.Get(path)
	require.NoError(t, err)
	replacement.Release()

	for i := 0; i < 200; i++ {
		other := filepath.Join(dir, "b"+string(rune('a'+i%26))+".py")
		writeFile(t, other, "x = 1\n")
		touchFuture(t, other)
		e, err := c.Get(other)
		require.NoError(t, err)
		e.Release()
	}

	assert.Equal(t, "def foo():\n    return 1\n", held.Root().Utf8Text(held.Src),
		"a held entry must keep its parsed view until released")
	held.Release()
}

func TestConcurrentGetSamePath(t *testing.T) {
	c := newTestCache(t)
	path := filepath.Join(t.TempDir(), "a.py")
	writeFile(t, path, "def foo():\n    pass\n")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				e, err := c.Get(path)
				if !assert.NoError(t, err) {
					return
				}
				assert.Contains(t, e.Root().Utf8Text(e.Src), "def foo")
				e.Release()
			}
		}()
	}

	// Race a replacement against the readers.
	writeFile(t, path, "def foo():\n    return 2\n")
	touchFuture(t, path)

	wg.Wait()
	assert.Equal(t, 1, c.Len())
}

func TestGetMissingFile(t *testing.T) {
	c := newTestCache(t)
	_, err := c.Get(filepath.Join(t.TempDir(), "missing.py"))
	assert.Error(t, err)
}

func TestInvalidateDropsEntry(t *testing.T) {
	c := newTestCache(t)
	path := filepath.Join(t.TempDir(), "a.py")
	writeFile(t, path, "x = 1\n")

	first, err := c.Get(path)
	require.NoError(t, err)
	defer first.Release()
	require.Equal(t, 1, c.Len())

	c.Invalidate(path)
	assert.Equal(t, 0, c.Len())

	second, err := c.Get(path)
	require.NoError(t, err)
	defer second.Release()
	assert.NotSame(t, first, second)
}

func TestEvictionBound(t *testing.T) {
	c := newTestCache(t, WithMaxEntries(2))
	dir := t.TempDir()

	for _, name := range []string{"a.py", "b.py", "c.py"} {
		path := filepath.Join(dir, name)
		writeFile(t, path, "x = 1\n")
		e, err := c.Get(path)
		require.NoError(t, err)
		e.Release()
	}

	assert.Equal(t, 2, c.Len())
}
