package dom

import "golang.org/x/net/html"

// VisitFunc is called for each element visited by Walk.
type VisitFunc func(n *html.Node) error

// Walk visits root and every element below it in pre-order.
//
// The visitor may rewrite the children of the node it is given; Walk reads
// the child list only after the visitor returns, so replacement content is
// walked too. The next sibling is captured before descending into a child,
// which keeps the cursor valid while that child's subtree changes.
// Walk stops at the first error.
func Walk(root *html.Node, visit VisitFunc) error {
	if root == nil {
		return nil
	}
	if root.Type == html.ElementNode {
		if err := visit(root); err != nil {
			return err
		}
	}
	for c := root.FirstChild; c != nil; {
		next := c.NextSibling
		if err := Walk(c, visit); err != nil {
			return err
		}
		c = next
	}
	return nil
}
