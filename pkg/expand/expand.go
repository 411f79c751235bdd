package expand

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/vango-dev/enhance/internal/errors"
	"github.com/vango-dev/enhance/pkg/dom"
	"github.com/vango-dev/enhance/pkg/transcode"
)

// RenderFunc renders a custom element to markup.
type RenderFunc func(m transcode.Markup, state *State) (string, error)

// Registry maps custom element tag names to render functions.
type Registry map[string]RenderFunc

// Lookup returns the render function for tag, or false when none is
// registered.
func (r Registry) Lookup(tag string) (RenderFunc, bool) {
	fn, ok := r[tag]
	return fn, ok && fn != nil
}

// State is passed to every render function.
type State struct {
	// Attrs holds the element's attributes with placeholder tokens decoded
	// back to their original values.
	Attrs map[string]any

	// Context is shared by all expansions of one render call.
	Context map[string]any

	// InstanceID is unique to this expansion.
	InstanceID string

	// Store persists across all render calls of one Enhancer.
	Store map[string]any
}

// Options carries the collaborators Expand needs besides the node.
type Options struct {
	Registry         Registry
	Codec            *transcode.Codec
	ScriptTransforms []Transform
	StyleTransforms  []Transform
}

// Result is the expanded template of one element.
type Result struct {
	// Fragment holds the visible template content.
	Fragment *html.Node

	Styles  []*html.Node
	Scripts []*html.Node
	Links   []*html.Node
}

// Expand renders node through its registered render function.
// state.Attrs is replaced with node's decoded attributes.
func Expand(node *html.Node, state *State, opts Options) (*Result, error) {
	tag := node.Data
	fn, ok := opts.Registry.Lookup(tag)
	if !ok {
		return nil, errors.New("E001").
			WithDetailf("could not find the template function for %s", tag).
			WithSuggestion(fmt.Sprintf("Register a render function for %q", tag))
	}

	state.Attrs = DecodeAttrs(node.Attr, opts.Codec)

	markup, err := fn(opts.Codec.Markup(), state)
	if err != nil {
		return nil, errors.New("E004").WithDetailf("rendering %s", tag).Wrap(err)
	}

	frag, err := dom.ParseFragment(markup)
	if err != nil {
		return nil, errors.New("E004").WithDetailf("parsing markup of %s", tag).Wrap(err)
	}

	res := &Result{Fragment: frag}
	for _, c := range dom.Children(frag) {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "script":
			frag.RemoveChild(c)
			if err := applyTransforms(c, opts.ScriptTransforms, tag, ""); err != nil {
				return nil, err
			}
			res.Scripts = append(res.Scripts, c)
		case "style":
			frag.RemoveChild(c)
			if err := applyTransforms(c, opts.StyleTransforms, tag, ContextMarkup); err != nil {
				return nil, err
			}
			res.Styles = append(res.Styles, c)
		case "link":
			frag.RemoveChild(c)
			res.Links = append(res.Links, c)
		}
	}
	return res, nil
}

// DecodeAttrs converts attributes to a map, decoding placeholder tokens
// through codec. Later duplicates win.
func DecodeAttrs(attrs []html.Attribute, codec *transcode.Codec) map[string]any {
	out := make(map[string]any, len(attrs))
	for _, a := range attrs {
		if codec != nil {
			out[a.Key] = codec.Decode(a.Val)
		} else {
			out[a.Key] = a.Val
		}
	}
	return out
}
