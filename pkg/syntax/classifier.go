package syntax

import (
	"fmt"

	"github.com/DanielEbert/lineCompletion/pkg/common/errors"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Point is a 0-based (row, column) source position.
type Point struct {
	Row    int
	Column int
}

func (p Point) sitter() sitter.Point {
	return sitter.Point{Row: uint(p.Row), Column: uint(p.Column)}
}

// PointOf converts a tree-sitter position back to the engine's Point.
func PointOf(p sitter.Point) Point {
	return Point{Row: int(p.Row), Column: int(p.Column)}
}

// IsDefinition reports whether n is a function or class definition.
func IsDefinition(n *sitter.Node) bool {
	switch KindOf(n) {
	case KindFunctionDef, KindClassDef:
		return true
	}
	return false
}

// DefinitionName returns the text of a definition's name child.
// Returns ErrMalformedNode when the name field is absent, which should not
// happen for well-formed definitions.
func DefinitionName(n *sitter.Node, src []byte) (string, error) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return "", fmt.Errorf("%w: %s at row %d", errors.ErrMalformedNode, n.Kind(), n.StartPosition().Row)
	}
	return nameNode.Utf8Text(src), nil
}

// EnclosingDefinition walks parent references upward (starting at n itself)
// until a function or class definition is found. Returns nil when none
// encloses n.
func EnclosingDefinition(n *sitter.Node) *sitter.Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if IsDefinition(cur) {
			return cur
		}
	}
	return nil
}

// EnclosingFunction is like EnclosingDefinition but only accepts function
// definitions. Used by the directory finder, which is strictly about `def`s.
func EnclosingFunction(n *sitter.Node) *sitter.Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if KindOf(cur) == KindFunctionDef {
			return cur
		}
	}
	return nil
}

// WidenToClass expands a definition to the OUTERMOST class enclosing it.
// Walking stops at the root, keeping the last class seen, so a method inside
// nested classes widens to the top-level class, not the nearest one. When no
// class ancestor exists the original node is returned unchanged.
func WidenToClass(n *sitter.Node) *sitter.Node {
	var outermost *sitter.Node
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if KindOf(cur) == KindClassDef {
			outermost = cur
		}
	}
	if outermost != nil {
		return outermost
	}
	return n
}

// SmallestNodeCovering finds the smallest named node whose span fully contains
// [start, end). Returns nil when the range falls outside the tree, e.g. past
// the end of the file.
func SmallestNodeCovering(root *sitter.Node, start, end Point) *sitter.Node {
	if root == nil {
		return nil
	}
	return root.NamedDescendantForPointRange(start.sitter(), end.sitter())
}
