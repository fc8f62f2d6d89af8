package webpage

import (
	"strings"

	"golang.org/x/net/html"
)

// Tags whose text is extracted as content, and the subset that starts a new
// logical section.
var (
	contentTags  = map[string]bool{"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "ul": true, "ol": true, "li": true, "pre": true, "code": true}
	boundaryTags = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true}
)

// Chunker turns a page's main content into logical text blocks: content tags
// are buffered until a heading boundary or a size threshold, and undersized
// trailing blocks are merged forward.
type Chunker struct {
	// MergeThreshold flushes the buffer once it exceeds this many characters.
	MergeThreshold int
	// MinChunkSize merges blocks smaller than this into their predecessor.
	MinChunkSize int

	documents  []Document
	buffer     []string
	bufferSize int
}

// NewChunker returns a Chunker with the defaults the backend ships with.
func NewChunker() *Chunker {
	return &Chunker{MergeThreshold: 800, MinChunkSize: 50}
}

// Process extracts logical blocks from the main content of the given page.
func (c *Chunker) Process(root *html.Node, source string) []Document {
	c.documents = nil
	c.buffer = nil
	c.bufferSize = 0

	container := FindMainContent(root)
	c.walk(container, source, false)
	c.flush(source)
	c.mergeSmallChunks()

	return c.documents
}

// walk visits content tags, skipping those nested inside another content tag
// so list items inside a processed list are not emitted twice.
func (c *Chunker) walk(n *html.Node, source string, insideContent bool) {
	if n.Type == html.ElementNode && contentTags[n.Data] && !insideContent {
		content := textOf(n, n.Data == "pre")
		if content != "" {
			if boundaryTags[n.Data] {
				c.flush(source)
				c.buffer = []string{content}
				c.bufferSize = len(content)
			} else {
				c.buffer = append(c.buffer, content)
				c.bufferSize += len(content)
				if c.bufferSize > c.MergeThreshold {
					c.flush(source)
				}
			}
		}
		insideContent = true
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child, source, insideContent)
	}
}

func (c *Chunker) flush(source string) {
	if len(c.buffer) == 0 {
		return
	}
	c.documents = append(c.documents, Document{
		Content: strings.Join(c.buffer, "\n\n"),
		Source:  source,
	})
	c.buffer = nil
	c.bufferSize = 0
}

func (c *Chunker) mergeSmallChunks() {
	if len(c.documents) == 0 {
		return
	}

	merged := []Document{c.documents[0]}
	for _, next := range c.documents[1:] {
		if len(next.Content) < c.MinChunkSize {
			last := &merged[len(merged)-1]
			last.Content += "\n\n" + next.Content
		} else {
			merged = append(merged, next)
		}
	}
	c.documents = merged
}

// Split breaks documents into chunks of at most chunkSize characters with the
// given overlap, preferring paragraph, then line, then word boundaries.
func Split(docs []Document, chunkSize, overlap int) []Document {
	var out []Document
	for _, doc := range docs {
		for _, piece := range splitText(doc.Content, chunkSize, overlap) {
			out = append(out, Document{Content: piece, Source: doc.Source})
		}
	}
	return out
}

var separators = []string{"\n\n", "\n", " "}

func splitText(text string, chunkSize, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	for len(text) > chunkSize {
		cut := chunkSize
		for _, sep := range separators {
			if idx := strings.LastIndex(text[:chunkSize], sep); idx > 0 {
				cut = idx + len(sep)
				break
			}
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))

		next := cut - overlap
		if next <= 0 {
			next = cut
		}
		text = text[next:]
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		chunks = append(chunks, trimmed)
	}
	return chunks
}
