package syntax

import sitter "github.com/tree-sitter/go-tree-sitter"

// NodeKind is the closed set of grammar node kinds this engine cares about.
// Anything else the Python grammar produces is folded into KindOther.
type NodeKind int

const (
	KindOther NodeKind = iota
	KindFunctionDef
	KindClassDef
	KindCall
	KindIdentifier
	KindAttribute
)

// Grammar kind strings as emitted by tree-sitter-python.
const (
	grammarFunctionDef = "function_definition"
	grammarClassDef    = "class_definition"
	grammarCall        = "call"
	grammarIdentifier  = "identifier"
	grammarAttribute   = "attribute"
)

var kindByGrammar = map[string]NodeKind{
	grammarFunctionDef: KindFunctionDef,
	grammarClassDef:    KindClassDef,
	grammarCall:        KindCall,
	grammarIdentifier:  KindIdentifier,
	grammarAttribute:   KindAttribute,
}

// KindOf classifies a node into the engine's closed kind set.
func KindOf(n *sitter.Node) NodeKind {
	if n == nil {
		return KindOther
	}
	if k, ok := kindByGrammar[n.Kind()]; ok {
		return k
	}
	return KindOther
}

func (k NodeKind) String() string {
	switch k {
	case KindFunctionDef:
		return "function_definition"
	case KindClassDef:
		return "class_definition"
	case KindCall:
		return "call"
	case KindIdentifier:
		return "identifier"
	case KindAttribute:
		return "attribute"
	default:
		return "other"
	}
}
