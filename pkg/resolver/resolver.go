// Package resolver answers "what definition encloses this range" queries
// against cached syntax trees.
package resolver

import (
	"strings"

	"github.com/DanielEbert/lineCompletion/pkg/syntax"
	"github.com/DanielEbert/lineCompletion/pkg/treecache"
)

// Resolution is the successful result of a symbol query: the enclosing
// definition's start position and its full source text.
type Resolution struct {
	Start syntax.Point
	Text  string
}

// Resolver resolves byte/point ranges in files to their enclosing function or
// class definitions. Resolution is a pure function of the tree and the query.
type Resolver struct {
	cache *treecache.Cache
}

// New creates a Resolver backed by the given tree cache.
func New(cache *treecache.Cache) *Resolver {
	return &Resolver{cache: cache}
}

// Resolve finds the definition enclosing [start, end) in the file at path.
//
// A nil Resolution with a nil error is a miss, not a fault: no node covers
// the range, no definition encloses it, or the name hint did not match (the
// hint text occurred e.g. inside a comment rather than as a definition name).
// nameHint is matched as a substring of the definition's name, deliberately
// loose to accommodate variance in how callers construct the hint.
func (r *Resolver) Resolve(path string, start, end syntax.Point, nameHint string, expandToClass bool) (*Resolution, error) {
	entry, err := r.cache.Get(path)
	if err != nil {
		return nil, err
	}
	defer entry.Release()

	node := syntax.SmallestNodeCovering(entry.Root(), start, end)
	if node == nil {
		return nil, nil
	}

	def := syntax.EnclosingDefinition(node)
	if def == nil {
		return nil, nil
	}

	if nameHint != "" {
		name, err := syntax.DefinitionName(def, entry.Src)
		if err != nil {
			return nil, err
		}
		if !strings.Contains(name, nameHint) {
			return nil, nil
		}
	}

	if expandToClass && syntax.KindOf(def) == syntax.KindFunctionDef {
		def = syntax.WidenToClass(def)
	}

	return &Resolution{
		Start: syntax.PointOf(def.StartPosition()),
		Text:  def.Utf8Text(entry.Src),
	}, nil
}
