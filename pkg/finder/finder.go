// Package finder locates every definition of a named function under a
// directory tree by combining a line-granularity full-text search with
// structural resolution against cached syntax trees.
package finder

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/DanielEbert/lineCompletion/pkg/syntax"
	"github.com/DanielEbert/lineCompletion/pkg/treecache"
)

// Hit is one approximate full-text match: a file and a 1-based line number.
// Hits may be false positives, e.g. a `def name` inside a comment.
type Hit struct {
	Path string
	Line int
}

// Searcher finds candidate definition lines for a function name under a root
// directory. The production implementation shells out to ripgrep.
type Searcher interface {
	Search(name, rootDir string) ([]Hit, error)
}

// FunctionReference is a point-in-time snapshot of one resolved definition.
// Field names match the serialization the original consumer expects.
type FunctionReference struct {
	Filepath     string  `json:"filepath"`
	Line         int     `json:"line"` // 0-based definition start line
	Text         string  `json:"text"`
	LastModified float64 `json:"last_modified_timestamp_epoch"`
}

// Finder resolves approximate search hits into exact whole-definition text.
type Finder struct {
	cache    *treecache.Cache
	searcher Searcher
	dedup    bool
}

// Option configures a Finder.
type Option func(*Finder)

// WithDedup drops repeated hits that resolve to the same definition, e.g. a
// decorator line and the def line both matching the search pattern. Off by
// default to match downstream consumers that deduplicate themselves.
func WithDedup(enabled bool) Option {
	return func(f *Finder) {
		f.dedup = enabled
	}
}

// New creates a Finder.
func New(cache *treecache.Cache, searcher Searcher, opts ...Option) *Finder {
	f := &Finder{cache: cache, searcher: searcher}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Find returns a snapshot for every definition of name under rootDir, in the
// order the search reported hits. Hits that resolve to nothing, or whose
// definition name does not contain name as a substring (comment false
// positives), are skipped silently. A search tool failure aborts the whole
// operation; no partial results are returned.
func (f *Finder) Find(name, rootDir string) ([]FunctionReference, error) {
	hits, err := f.searcher.Search(name, rootDir)
	if err != nil {
		return nil, err
	}

	var refs []FunctionReference
	seen := make(map[string]struct{})

	for _, hit := range hits {
		ref, err := f.resolveHit(hit, name)
		if err != nil {
			return nil, err
		}
		if ref == nil {
			continue
		}

		if f.dedup {
			key := fmt.Sprintf("%s:%d", ref.Filepath, ref.Line)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
		}

		refs = append(refs, *ref)
	}

	return refs, nil
}

// resolveHit turns one search hit into a definition snapshot, or nil when the
// hit does not land inside a function whose name contains name.
func (f *Finder) resolveHit(hit Hit, name string) (*FunctionReference, error) {
	entry, err := f.cache.Get(hit.Path)
	if err != nil {
		return nil, err
	}
	defer entry.Release()

	// Anchor the lookup on the whole matched line. The wide column span
	// approximates "anywhere on this line".
	row := hit.Line - 1
	node := syntax.SmallestNodeCovering(entry.Root(), syntax.Point{Row: row}, syntax.Point{Row: row, Column: 1000})
	if node == nil {
		return nil, nil
	}

	def := syntax.EnclosingFunction(node)
	if def == nil {
		return nil, nil
	}

	defName, err := syntax.DefinitionName(def, entry.Src)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(defName, name) {
		// Occurs when the hit was e.g. a '# def xyz ...' comment.
		return nil, nil
	}

	return &FunctionReference{
		Filepath:     hit.Path,
		Line:         int(def.StartPosition().Row),
		Text:         def.Utf8Text(entry.Src),
		LastModified: float64(entry.ModTime.UnixNano()) / 1e9,
	}, nil
}

// WriteJSON serializes references for downstream consumption.
func WriteJSON(w io.Writer, refs []FunctionReference) error {
	if refs == nil {
		refs = []FunctionReference{}
	}
	enc := json.NewEncoder(w)
	return enc.Encode(refs)
}
