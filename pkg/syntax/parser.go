// Package syntax wraps the tree-sitter Python grammar: parsing source bytes
// into concrete syntax trees and answering pure structural questions about
// nodes (definition checks, name extraction, ancestor walks).
package syntax

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// Language returns the shared Python grammar. The returned value is immutable
// and safe to share across parsers.
func Language() *sitter.Language {
	return pythonLanguage
}

var pythonLanguage = sitter.NewLanguage(tree_sitter_python.Language())

// Parser turns raw source bytes into concrete syntax trees. A Parser is not
// safe for concurrent use; callers either create one per parse or serialize
// access (the tree cache does the latter).
type Parser struct {
	inner *sitter.Parser
}

// NewParser creates a parser bound to the Python grammar.
func NewParser() (*Parser, error) {
	p := sitter.NewParser()
	if err := p.SetLanguage(pythonLanguage); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}
	return &Parser{inner: p}, nil
}

// Parse produces a best-effort tree for src. The grammar is error-tolerant, so
// a nil tree is exceptional; callers treat it as a parse failure.
func (p *Parser) Parse(src []byte) *sitter.Tree {
	return p.inner.Parse(src, nil)
}

// Close releases the underlying cgo parser.
func (p *Parser) Close() {
	p.inner.Close()
}
