// Package webpage fetches documentation pages and converts them into text
// chunks suitable for prompt context: locate the main content container,
// walk its content tags into logical blocks, then split to a fixed size.
package webpage

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Document is one chunk of page text with its origin.
type Document struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// Fetch downloads a page and returns its parsed HTML root.
func Fetch(pageURL string) (*html.Node, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: status %s", pageURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pageURL, err)
	}

	root, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return root, nil
}

// positiveSelectors are tried in order; the first match is taken as the main
// content container.
var positiveSelectors = []selector{
	{tag: "main"},
	{tag: "article"},
	{tag: "div", id: "main"},
	{tag: "div", id: "content"},
	{tag: "div", classContains: "main-content"},
	{tag: "div", classContains: "content"},
	{tag: "div", classContains: "post"},
}

// junkSelectors are stripped from the <body> fallback.
var junkSelectors = []selector{
	{tag: "nav"}, {tag: "aside"}, {tag: "footer"}, {tag: "header"},
	{tag: "script"}, {tag: "style"},
	{idContains: "sidebar"}, {classContains: "sidebar"},
	{idContains: "comments"}, {classContains: "comments"},
	{idContains: "footer"}, {classContains: "footer"},
}

type selector struct {
	tag           string
	id            string
	idContains    string
	classContains string
}

func (s selector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && n.Data != s.tag {
		return false
	}
	id, class := attr(n, "id"), attr(n, "class")
	if s.id != "" && id != s.id {
		return false
	}
	if s.idContains != "" && !strings.Contains(id, s.idContains) {
		return false
	}
	if s.classContains != "" && !strings.Contains(class, s.classContains) {
		return false
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// FindMainContent locates the main content of a page by trying a series of
// increasingly general selectors. As a last resort it strips navigation and
// boilerplate out of <body> and returns that.
func FindMainContent(root *html.Node) *html.Node {
	for _, sel := range positiveSelectors {
		if n := findFirst(root, sel.matches); n != nil {
			return n
		}
	}

	body := findFirst(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "body"
	})
	if body == nil {
		return root
	}

	for _, sel := range junkSelectors {
		removeAll(body, sel.matches)
	}
	return body
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func removeAll(n *html.Node, match func(*html.Node) bool) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if match(c) {
			n.RemoveChild(c)
		} else {
			removeAll(c, match)
		}
		c = next
	}
}

// textOf collects all text beneath n. Whitespace is collapsed unless the
// subtree is preformatted.
func textOf(n *html.Node, preserve bool) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			sb.WriteString(cur.Data)
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	text := sb.String()
	if preserve {
		return text
	}
	return strings.TrimSpace(strings.Join(strings.Fields(text), " "))
}
