// Package resources merges the styles, scripts and links produced by every
// element expansion of a render call into the document.
//
// Scripts are deduplicated by their text, or by src when they have none, and
// appended to the body. Styles are deduplicated by text, merged into a single
// style element with @import rules first, and appended to the head. Links are
// deduplicated by their attributes regardless of attribute order and appended
// to the head.
package resources

import (
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/enhance/pkg/dom"
)

// Collector accumulates resource elements, one batch per expansion.
type Collector struct {
	styles  [][]*html.Node
	scripts [][]*html.Node
	links   [][]*html.Node
}

// Add records the resources of one expansion.
func (c *Collector) Add(styles, scripts, links []*html.Node) {
	c.styles = append(c.styles, styles)
	c.scripts = append(c.scripts, scripts)
	c.links = append(c.links, links)
}

// Counts reports how many resource elements have been collected, before
// deduplication.
func (c *Collector) Counts() (styles, scripts, links int) {
	return count(c.styles), count(c.scripts), count(c.links)
}

// Scripts returns the unique scripts in first-seen order. A script is keyed
// by its text, or by its src when the text is empty; scripts with neither are
// dropped.
func (c *Collector) Scripts() []*html.Node {
	seen := make(map[string]bool)
	var out []*html.Node
	for _, batch := range c.scripts {
		for _, s := range batch {
			key := dom.Text(s)
			if key == "" {
				key, _ = dom.Attr(s, "src")
			}
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, s)
		}
	}
	return out
}

// StyleSheet returns the merged text of all unique, non-empty styles, with
// bodies starting with @import moved before the rest.
func (c *Collector) StyleSheet() string {
	seen := make(map[string]bool)
	var bodies []string
	for _, batch := range c.styles {
		for _, s := range batch {
			text := dom.Text(s)
			if text == "" || seen[text] {
				continue
			}
			seen[text] = true
			bodies = append(bodies, text)
		}
	}
	sort.SliceStable(bodies, func(i, j int) bool {
		return isImport(bodies[i]) && !isImport(bodies[j])
	})
	return strings.Join(bodies, "\n")
}

// Links returns the unique links in first-seen order, keyed by
// CanonicalLink.
func (c *Collector) Links() []*html.Node {
	seen := make(map[string]bool)
	var out []*html.Node
	for _, batch := range c.links {
		for _, l := range batch {
			key := CanonicalLink(l)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, l)
		}
	}
	return out
}

// Apply appends the merged resources to head and body.
func (c *Collector) Apply(head, body *html.Node) {
	for _, s := range c.Scripts() {
		dom.Detach(s)
		body.AppendChild(s)
	}

	if css := c.StyleSheet(); css != "" {
		style := dom.NewElement("style")
		style.AppendChild(dom.NewText(css))
		head.AppendChild(style)
	}

	for _, l := range c.Links() {
		dom.Detach(l)
		head.AppendChild(l)
	}
}

// CanonicalLink serializes a link element with its attributes sorted by name,
// so equivalent links compare equal.
func CanonicalLink(n *html.Node) string {
	attrs := make([]html.Attribute, len(n.Attr))
	copy(attrs, n.Attr)
	sort.SliceStable(attrs, func(i, j int) bool { return attrs[i].Key < attrs[j].Key })

	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, a.Key+`="`+a.Val+`"`)
	}
	return "<link " + strings.Join(parts, " ") + " />"
}

func isImport(css string) bool {
	return strings.HasPrefix(strings.TrimSpace(css), "@import")
}

func count(batches [][]*html.Node) int {
	n := 0
	for _, b := range batches {
		n += len(b)
	}
	return n
}
