// debug_ast dumps the concrete syntax tree of a Python file, annotated with
// the kinds the engine classifies. Development tool, not part of the server.
package main

import (
	"fmt"
	"os"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DanielEbert/lineCompletion/pkg/syntax"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: debug_ast <file.py>")
		os.Exit(1)
	}

	src, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	parser, err := syntax.NewParser()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer parser.Close()

	tree := parser.Parse(src)
	if tree == nil {
		fmt.Fprintln(os.Stderr, "parse returned no tree")
		os.Exit(1)
	}
	defer tree.Close()

	var walk func(n *sitter.Node, depth int)
	walk = func(n *sitter.Node, depth int) {
		start, end := n.StartPosition(), n.EndPosition()
		label := n.Kind()
		if kind := syntax.KindOf(n); kind != syntax.KindOther {
			label = fmt.Sprintf("%s [%s]", label, kind)
		}
		fmt.Printf("%s%s (%d,%d)-(%d,%d)\n",
			strings.Repeat("  ", depth), label,
			start.Row, start.Column, end.Row, end.Column)

		for i := uint(0); i < uint(n.ChildCount()); i++ {
			walk(n.Child(i), depth+1)
		}
	}
	walk(tree.RootNode(), 0)
}
