// Package expand renders one custom element into template content.
//
// Expand looks up the element's render function in a Registry, hands it the
// element's decoded attributes together with the shared render state, parses
// the returned markup, and pulls the style, script and link elements out of
// the result so they can be merged document-wide.
//
// A render function receives a transcode.Markup for building markup that
// carries rich values to nested elements, and a *State:
//
//	reg := expand.Registry{
//	    "x-greet": func(m transcode.Markup, s *expand.State) (string, error) {
//	        return fmt.Sprintf("<p>hi %v <slot></slot></p>", s.Attrs["name"]), nil
//	    },
//	}
package expand
