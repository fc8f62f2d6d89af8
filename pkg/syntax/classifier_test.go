package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielEbert/lineCompletion/pkg/common/errors"
)

const sample = `import os

def alpha():
    x = 1
    return x

class Outer:
    class Inner:
        def method(self):
            pass

def beta():
    pass
`

func parse(t *testing.T, src string) ([]byte, *Parser, func()) {
	t.Helper()
	p, err := NewParser()
	require.NoError(t, err)
	return []byte(src), p, p.Close
}

func TestEnclosingDefinition(t *testing.T) {
	src, p, cleanup := parse(t, sample)
	defer cleanup()

	tree := p.Parse(src)
	require.NotNil(t, tree)
	defer tree.Close()
	root := tree.RootNode()

	// Inside alpha's body.
	node := SmallestNodeCovering(root, Point{Row: 3, Column: 4}, Point{Row: 3, Column: 5})
	require.NotNil(t, node)

	def := EnclosingDefinition(node)
	require.NotNil(t, def)
	assert.Equal(t, KindFunctionDef, KindOf(def))

	name, err := DefinitionName(def, src)
	require.NoError(t, err)
	assert.Equal(t, "alpha", name)
}

func TestEnclosingDefinitionMissOnImports(t *testing.T) {
	src, p, cleanup := parse(t, sample)
	defer cleanup()

	tree := p.Parse(src)
	require.NotNil(t, tree)
	defer tree.Close()

	node := SmallestNodeCovering(tree.RootNode(), Point{Row: 0, Column: 0}, Point{Row: 0, Column: 6})
	require.NotNil(t, node)
	assert.Nil(t, EnclosingDefinition(node))
}

func TestWidenToClassPicksOutermost(t *testing.T) {
	src, p, cleanup := parse(t, sample)
	defer cleanup()

	tree := p.Parse(src)
	require.NotNil(t, tree)
	defer tree.Close()

	// Inside method's body, nested two classes deep.
	node := SmallestNodeCovering(tree.RootNode(), Point{Row: 9, Column: 12}, Point{Row: 9, Column: 13})
	require.NotNil(t, node)

	def := EnclosingDefinition(node)
	require.NotNil(t, def)
	assert.Equal(t, KindFunctionDef, KindOf(def))

	widened := WidenToClass(def)
	require.NotNil(t, widened)
	assert.Equal(t, KindClassDef, KindOf(widened))

	name, err := DefinitionName(widened, src)
	require.NoError(t, err)
	assert.Equal(t, "Outer", name, "widening should reach the top-level class, not Inner")
}

func TestWidenToClassNoClassAncestor(t *testing.T) {
	src, p, cleanup := parse(t, sample)
	defer cleanup()

	tree := p.Parse(src)
	require.NotNil(t, tree)
	defer tree.Close()

	node := SmallestNodeCovering(tree.RootNode(), Point{Row: 12, Column: 4}, Point{Row: 12, Column: 5})
	require.NotNil(t, node)

	def := EnclosingDefinition(node)
	require.NotNil(t, def)
	assert.Same(t, def, WidenToClass(def))
}

func TestDefinitionNameMalformed(t *testing.T) {
	src, p, cleanup := parse(t, sample)
	defer cleanup()

	tree := p.Parse(src)
	require.NotNil(t, tree)
	defer tree.Close()

	// The module root has no name child.
	_, err := DefinitionName(tree.RootNode(), src)
	assert.ErrorIs(t, err, errors.ErrMalformedNode)
}

func TestKindOfFoldsUnknownKinds(t *testing.T) {
	src, p, cleanup := parse(t, "x = 1\n")
	defer cleanup()

	tree := p.Parse(src)
	require.NotNil(t, tree)
	defer tree.Close()

	assert.Equal(t, KindOther, KindOf(tree.RootNode()))
}
