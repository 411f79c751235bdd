package expand

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/enhance/internal/errors"
	"github.com/vango-dev/enhance/pkg/dom"
)

// ContextMarkup is the Context given to style transforms for styles found in
// element templates.
const ContextMarkup = "markup"

// TransformInput describes one style or script body being transformed.
type TransformInput struct {
	// Attrs are the attributes of the style or script element.
	Attrs []html.Attribute

	// Raw is the current text, the output of the previous transform.
	Raw string

	// TagName is the custom element that produced the resource.
	TagName string

	// Context is set for style transforms only.
	Context string
}

// Transform rewrites the text of a style or script element.
type Transform func(in TransformInput) (string, error)

// applyTransforms runs transforms in order over the text of el and stores
// the final text. Elements without children are left alone.
func applyTransforms(el *html.Node, transforms []Transform, tag, context string) error {
	if el.FirstChild == nil || len(transforms) == 0 {
		return nil
	}

	out := dom.Text(el)
	for _, t := range transforms {
		next, err := t(TransformInput{Attrs: el.Attr, Raw: out, TagName: tag, Context: context})
		if err != nil {
			return errors.New("E003").
				WithDetailf("%s transform for %s", el.Data, tag).
				Wrap(err)
		}
		out = next
	}
	dom.SetText(el, out)
	return nil
}
