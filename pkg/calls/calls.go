// Package calls extracts call-site target identifiers from Python source,
// with built-in names filtered out.
package calls

import (
	"fmt"

	"github.com/DanielEbert/lineCompletion/pkg/common/errors"
	"github.com/DanielEbert/lineCompletion/pkg/syntax"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// CallSite is one structural call match: the resolved identifier text and the
// 0-based position of that identifier.
type CallSite struct {
	Name   string `json:"name"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
}

// Extract parses a one-off buffer and returns every call expression's target
// identifier. Two shapes are matched: direct calls on a bare identifier, and
// attribute calls where only the final accessed name is captured. Built-ins
// are filtered out; duplicates are kept.
func Extract(src []byte) ([]CallSite, error) {
	parser, err := syntax.NewParser()
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	tree := parser.Parse(src)
	if tree == nil {
		return nil, fmt.Errorf("%w: call extraction buffer", errors.ErrParse)
	}
	defer tree.Close()

	return collect(tree.RootNode(), src, 0, -1), nil
}

// ExtractInRange walks an already-parsed tree and returns call sites whose
// row falls within [startLine, endLine], both inclusive. Callers validate the
// range; a negative endLine is the internal no-filter sentinel Extract uses.
func ExtractInRange(root *sitter.Node, src []byte, startLine, endLine int) []CallSite {
	return collect(root, src, startLine, endLine)
}

// collect walks the tree matching call nodes. endLine < 0 disables the line
// filter.
func collect(root *sitter.Node, src []byte, startLine, endLine int) []CallSite {
	var sites []CallSite

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if syntax.KindOf(n) == syntax.KindCall {
			if site, ok := callTarget(n, src); ok {
				inRange := endLine < 0 || (site.Row >= startLine && site.Row <= endLine)
				if inRange && !IsBuiltin(site.Name) {
					sites = append(sites, site)
				}
			}
		}
		for i := uint(0); i < uint(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	return sites
}

// callTarget resolves the identifier a call node invokes: the bare callee for
// `f(...)`, the final attribute for `obj.f(...)`. Calls on anything else
// (subscripts, nested calls) are not matched.
func callTarget(call *sitter.Node, src []byte) (CallSite, bool) {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return CallSite{}, false
	}

	var ident *sitter.Node
	switch syntax.KindOf(fn) {
	case syntax.KindIdentifier:
		ident = fn
	case syntax.KindAttribute:
		attr := fn.ChildByFieldName("attribute")
		if attr != nil && syntax.KindOf(attr) == syntax.KindIdentifier {
			ident = attr
		}
	}
	if ident == nil {
		return CallSite{}, false
	}

	pos := syntax.PointOf(ident.StartPosition())
	return CallSite{
		Name:   ident.Utf8Text(src),
		Row:    pos.Row,
		Column: pos.Column,
	}, true
}
