// Package transcode substitutes non-primitive values embedded in markup with
// opaque placeholder tokens.
//
// Markup is text, but render functions often want to hand richer values
// (slices, maps, structs, functions) to the custom elements they emit. The
// Codec stores such values and writes a token of the form __b_<seq> into the
// markup instead. When the expander later reads the element's attributes it
// decodes the token back to the original value.
//
// Strings and numbers are written as-is; every other value gets a token.
//
//	codec := transcode.NewCodec()
//	m := codec.Markup()
//	html := m.Join([]string{`<todo-list items="`, `"></todo-list>`}, items)
//	// html == `<todo-list items="__b_0"></todo-list>`
//	codec.Decode("__b_0") // items
//
// Tokens that survive into serialized output are removed by Strip.
package transcode
