package calls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DanielEbert/lineCompletion/pkg/syntax"
)

func mustParse(t *testing.T, src []byte) *sitter.Tree {
	t.Helper()
	p, err := syntax.NewParser()
	require.NoError(t, err)
	t.Cleanup(p.Close)

	tree := p.Parse(src)
	require.NotNil(t, tree)
	return tree
}

func TestExtractBuiltinsOnly(t *testing.T) {
	sites, err := Extract([]byte("print(len([1, 2]))\n"))
	require.NoError(t, err)
	assert.Empty(t, sites)
}

func TestExtractDirectAndAttributeCalls(t *testing.T) {
	src := `result = compute(x)
obj.refresh()
data = json.loads(payload)
`
	sites, err := Extract([]byte(src))
	require.NoError(t, err)

	names := make([]string, len(sites))
	for i, s := range sites {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"compute", "refresh", "loads"}, names)
}

func TestExtractPositionIsIdentifier(t *testing.T) {
	sites, err := Extract([]byte("obj.refresh()\n"))
	require.NoError(t, err)
	require.Len(t, sites, 1)

	// The position points at the accessed name, not the receiver.
	assert.Equal(t, 0, sites[0].Row)
	assert.Equal(t, 4, sites[0].Column)
}

func TestExtractKeepsDuplicates(t *testing.T) {
	src := `compute(1)
compute(2)
`
	sites, err := Extract([]byte(src))
	require.NoError(t, err)
	assert.Len(t, sites, 2)
}

func TestExtractSkipsNonIdentifierCallees(t *testing.T) {
	src := `handlers[0]()
make_fn()()
`
	sites, err := Extract([]byte(src))
	require.NoError(t, err)

	// The subscript and the outer call are skipped; the inner make_fn call
	// still matches.
	require.Len(t, sites, 1)
	assert.Equal(t, "make_fn", sites[0].Name)
}

func TestExtractInRangeFiltersInclusive(t *testing.T) {
	src := []byte(`first(1)
second(2)
third(3)
fourth(4)
`)
	tree := mustParse(t, src)
	defer tree.Close()

	sites := ExtractInRange(tree.RootNode(), src, 1, 2)
	names := make([]string, len(sites))
	for i, s := range sites {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"second", "third"}, names)
}

func TestIsBuiltin(t *testing.T) {
	assert.True(t, IsBuiltin("print"))
	assert.True(t, IsBuiltin("isinstance"))
	assert.False(t, IsBuiltin("compute"))
	// Site builtins injected by the interactive interpreter are not in the set.
	assert.False(t, IsBuiltin("help"))
}
