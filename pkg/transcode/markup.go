package transcode

import "strings"

// Markup builds markup text with values routed through a Codec.
type Markup struct {
	codec *Codec
}

// Markup returns a builder bound to c.
func (c *Codec) Markup() Markup {
	return Markup{codec: c}
}

// Join interleaves literals with encoded values, the way a tagged template
// literal is rendered: literals[0], values[0], literals[1], ... Values beyond
// len(literals)-1 are ignored.
func (m Markup) Join(literals []string, values ...any) string {
	if len(literals) == 0 {
		return ""
	}

	var b strings.Builder
	for i := 0; i < len(literals)-1; i++ {
		b.WriteString(literals[i])
		if i < len(values) {
			b.WriteString(m.codec.Encode(values[i]))
		}
	}
	b.WriteString(literals[len(literals)-1])
	return b.String()
}

// Value encodes a single value, typically for use as an attribute value.
func (m Markup) Value(v any) string {
	return m.codec.Encode(v)
}
