package webpage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parsePage(t *testing.T, page string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)
	return root
}

func TestFindMainContentPrefersMainTag(t *testing.T) {
	root := parsePage(t, `<html><body>
		<nav>menu</nav>
		<main><p>real content</p></main>
	</body></html>`)

	container := FindMainContent(root)
	require.NotNil(t, container)
	assert.Equal(t, "main", container.Data)
}

func TestFindMainContentBodyFallbackStripsJunk(t *testing.T) {
	root := parsePage(t, `<html><body>
		<nav>menu</nav>
		<div class="sidebar">links</div>
		<p>kept paragraph</p>
	</body></html>`)

	container := FindMainContent(root)
	require.NotNil(t, container)

	text := textOf(container, false)
	assert.Contains(t, text, "kept paragraph")
	assert.NotContains(t, text, "menu")
	assert.NotContains(t, text, "links")
}

func TestChunkerSplitsOnHeadings(t *testing.T) {
	root := parsePage(t, `<html><body><main>
		<h2>Install</h2>
		<p>Run the installer.</p>
		<h2>Usage</h2>
		<p>Call the function with two arguments and check the result carefully.</p>
	</main></body></html>`)

	docs := NewChunker().Process(root, "https://example.com/docs")
	require.Len(t, docs, 2)

	assert.Contains(t, docs[0].Content, "Install")
	assert.Contains(t, docs[0].Content, "Run the installer.")
	assert.Contains(t, docs[1].Content, "Usage")
	assert.Equal(t, "https://example.com/docs", docs[0].Source)
}

func TestChunkerMergesSmallChunks(t *testing.T) {
	root := parsePage(t, `<html><body><main>
		<h2>One</h2>
		<p>This first section has enough text to stand on its own as a chunk.</p>
		<h2>Tiny</h2>
	</main></body></html>`)

	c := NewChunker()
	docs := c.Process(root, "src")
	require.Len(t, docs, 1, "the undersized trailing heading merges into its predecessor")
	assert.Contains(t, docs[0].Content, "Tiny")
}

func TestChunkerPreservesPreformatted(t *testing.T) {
	root := parsePage(t, "<html><body><main><pre>line1\n    line2</pre></main></body></html>")

	docs := NewChunker().Process(root, "src")
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0].Content, "line1\n    line2")
}

func TestChunkerSkipsNestedContentTags(t *testing.T) {
	root := parsePage(t, `<html><body><main>
		<ul><li>first item</li><li>second item</li></ul>
	</main></body></html>`)

	docs := NewChunker().Process(root, "src")
	require.Len(t, docs, 1)
	assert.Equal(t, 1, strings.Count(docs[0].Content, "first item"), "list items are not emitted twice")
}

func TestSplitRespectsChunkSize(t *testing.T) {
	long := strings.Repeat("alpha beta gamma ", 50)
	docs := Split([]Document{{Content: long, Source: "s"}}, 100, 20)

	require.Greater(t, len(docs), 1)
	for _, d := range docs {
		assert.LessOrEqual(t, len(d.Content), 100)
		assert.Equal(t, "s", d.Source)
	}
}
