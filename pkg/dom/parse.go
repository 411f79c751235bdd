package dom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses a complete HTML document. The parser synthesizes missing
// html, head and body elements.
func Parse(markup string) (*html.Node, error) {
	return html.Parse(strings.NewReader(markup))
}

// ParseFragment parses markup as the content of a template element and
// returns the nodes under a fragment root. A template context keeps table
// parts such as tr and td that a body context would drop.
func ParseFragment(markup string) (*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "template", DataAtom: atom.Template}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, err
	}

	frag := NewFragment()
	for _, n := range nodes {
		frag.AppendChild(n)
	}
	return frag, nil
}

// NewFragment returns an empty fragment root.
func NewFragment() *html.Node {
	return &html.Node{Type: html.DocumentNode}
}

// Render serializes n and its subtree, including n's own tag for elements.
// Rendering a document or fragment root renders its children.
func Render(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderInner serializes the children of n, without n's own tag.
func RenderInner(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// HeadAndBody locates the head and body elements of a parsed document.
// Either result is nil when the document lacks it.
func HeadAndBody(doc *html.Node) (head, body *html.Node) {
	root := FirstChildElement(doc, "html")
	if root == nil {
		return nil, nil
	}
	return FirstChildElement(root, "head"), FirstChildElement(root, "body")
}

// FirstChildElement returns the first direct child of n that is an element
// named tag.
func FirstChildElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}
