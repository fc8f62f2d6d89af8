// Package treecache keeps the most recently parsed syntax tree for each file,
// invalidated by modification time. It is an explicitly constructed service
// object; callers hold a reference instead of going through a global.
package treecache

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DanielEbert/lineCompletion/pkg/common/errors"
	"github.com/DanielEbert/lineCompletion/pkg/syntax"
	lru "github.com/hashicorp/golang-lru/v2"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// DefaultMaxEntries bounds the number of cached trees. Trees hold C memory,
// so the cache evicts least recently used entries instead of growing forever.
const DefaultMaxEntries = 4096

// Entry is a (modification-time, tree) pair for one file. The source bytes
// the tree was parsed from are kept alongside it: node text extraction needs
// them, and a tree must never outlive its buffer.
//
// Entries are reference counted. Get retains a reference for the caller, who
// must call Release when done; the cache holds its own reference until the
// entry is evicted or replaced. The cgo tree is closed only when the last
// reference is dropped, so an entry held by an in-flight request stays valid
// even while another goroutine replaces it.
type Entry struct {
	ModTime time.Time
	Tree    *sitter.Tree
	Src     []byte

	refs atomic.Int32
}

// Root returns the tree's root node.
func (e *Entry) Root() *sitter.Node {
	return e.Tree.RootNode()
}

// retain is only called while the cache lock guarantees at least one live
// reference, so the count can never be resurrected from zero.
func (e *Entry) retain() {
	e.refs.Add(1)
}

// Release drops the caller's reference, closing the tree once neither the
// cache nor any caller holds one.
func (e *Entry) Release() {
	if e.refs.Add(-1) == 0 {
		e.Tree.Close()
	}
}

// Cache maps file paths to parsed trees. Safe for concurrent use; the
// stat/compare/parse/store sequence runs under a single coarse lock, which is
// fine because parse cost dominates lock hold time.
type Cache struct {
	mu      sync.Mutex
	parser  *syntax.Parser
	entries *lru.Cache[string, *Entry]
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	maxEntries int
}

// WithMaxEntries overrides the cache capacity.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxEntries = n
		}
	}
}

// New creates an empty cache.
func New(opts ...Option) (*Cache, error) {
	o := options{maxEntries: DefaultMaxEntries}
	for _, opt := range opts {
		opt(&o)
	}

	parser, err := syntax.NewParser()
	if err != nil {
		return nil, err
	}

	// Eviction drops the cache's reference; the tree closes once in-flight
	// callers have released theirs.
	entries, err := lru.NewWithEvict[string, *Entry](o.maxEntries, func(_ string, e *Entry) {
		e.Release()
	})
	if err != nil {
		parser.Close()
		return nil, err
	}

	return &Cache{parser: parser, entries: entries}, nil
}

// Get returns the cached tree for path, reparsing only when the file on disk
// is newer than the stored entry. A cache hit performs a stat but no content
// read. The caller must Release the returned entry when done with it.
func (c *Cache) Get(path string) (*Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	modTime := info.ModTime()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Valid while the stored mtime is >= the current on-disk mtime. Changes
	// within the timestamp's resolution are a known limitation.
	if e, ok := c.entries.Get(path); ok && !e.ModTime.Before(modTime) {
		e.retain()
		return e, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	tree := c.parser.Parse(src)
	if tree == nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrParse, path)
	}

	e := &Entry{ModTime: modTime, Tree: tree, Src: src}
	e.retain() // the cache's reference
	e.retain() // the caller's
	// Remove first so the eviction callback releases the replaced entry; Add
	// on an existing key would update in place without firing it.
	c.entries.Remove(path)
	c.entries.Add(path, e)
	return e, nil
}

// Invalidate drops the entry for path, if any. The next Get reparses.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Remove(path)
}

// Len returns the number of cached trees.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Close drops all entries, releasing the cache's references, and closes the
// parser. Entries still held by callers stay valid until they Release.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
	c.parser.Close()
}
