// Package slots merges a custom element's original children into the slot
// placeholders of its expanded template.
//
// Children carrying a slot="name" attribute are inserts for the named slot
// of the same name. All other children, plus inserts no named slot claimed,
// are the fallback content for the default (unnamed) slot. Slots that end up
// unused are unwrapped so their placeholder content is emitted, carrying the
// slot name along for forwarding to an enclosing element.
package slots

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/enhance/pkg/dom"
)

// DefaultWrapper is the element that wraps unused named slot content when
// the slot has no "as" attribute.
const DefaultWrapper = "span"

// CollectSlots returns every slot element below root in document order.
func CollectSlots(root *html.Node) []*html.Node {
	var out []*html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if dom.IsElement(c, "slot") {
				out = append(out, c)
			}
			find(c)
		}
	}
	find(root)
	return out
}

// CollectDirectInserts returns the direct children of node that carry a slot
// attribute, in document order.
func CollectDirectInserts(node *html.Node) []*html.Node {
	var out []*html.Node
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if _, ok := dom.Attr(c, "slot"); ok {
			out = append(out, c)
		}
	}
	return out
}

// Fill merges node's children into template's slots and then makes the
// resolved template content node's only children. template is left empty.
func Fill(node, template *html.Node) {
	slots := CollectSlots(template)
	inserts := CollectDirectInserts(node)
	original := dom.Children(node)

	usedSlots := make(map[*html.Node]bool)
	usedInserts := make(map[*html.Node]bool)
	var unnamed []*html.Node

	for _, slot := range slots {
		name, named := dom.Attr(slot, "name")
		if !named {
			unnamed = append(unnamed, slot)
			continue
		}

		var matched []*html.Node
		for _, insert := range inserts {
			if target, _ := dom.Attr(insert, "slot"); target == name && !usedInserts[insert] {
				matched = append(matched, insert)
			}
		}
		if len(matched) == 0 {
			continue
		}

		dom.ReplaceWith(slot, matched...)
		usedSlots[slot] = true
		for _, insert := range matched {
			usedInserts[insert] = true
		}
	}

	// The first default slot takes every child not claimed by a named slot.
	// A node can only live in one place, so later default slots fall back to
	// their own placeholder content.
	fallbackTaken := false
	for _, slot := range unnamed {
		var content []*html.Node
		if !fallbackTaken {
			for _, c := range original {
				if !usedInserts[c] {
					content = append(content, c)
				}
			}
		}
		if len(content) > 0 {
			fallbackTaken = true
		} else {
			content = dom.Children(slot)
		}
		dom.ReplaceWith(slot, content...)
	}

	for _, slot := range slots {
		if !usedSlots[slot] {
			unwrapUnused(slot)
		}
	}

	dom.RemoveChildren(node)
	dom.MoveChildren(node, template)
}

// unwrapUnused replaces an unused named slot with its placeholder content,
// tagged with slot="name". A single element child receives the attribute
// directly; any other content is wrapped in an element named by the slot's
// "as" attribute. Unnamed slots are left alone.
func unwrapUnused(slot *html.Node) {
	name, _ := dom.Attr(slot, "name")
	if name == "" {
		return
	}

	var elements []*html.Node
	for c := slot.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			elements = append(elements, c)
		}
	}

	if len(elements) == 1 {
		dom.AddAttr(elements[0], "slot", name)
	} else {
		tag := DefaultWrapper
		if as, ok := dom.Attr(slot, "as"); ok && as != "" {
			tag = as
		}
		wrapper := dom.NewElement(tag, html.Attribute{Key: "slot", Val: name})
		dom.MoveChildren(wrapper, slot)
		slot.AppendChild(wrapper)
	}

	dom.ReplaceWith(slot, dom.Children(slot)...)
}
