// Package dom is the boundary between enhance and the HTML parser.
//
// Trees are golang.org/x/net/html nodes. The package parses whole documents
// and body-context fragments, serializes trees back to text, walks element
// subtrees, and offers the small set of splice and attribute helpers the
// expander and slot filler need.
//
// A fragment is represented by a node of type html.DocumentNode whose
// children are the parsed top-level nodes. It never carries a doctype and is
// never rendered itself, only its children.
package dom
