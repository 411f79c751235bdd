package enhance

import "context"

// RenderInfo describes one render call. Middleware may read it after next
// returns; the counters are filled in by the render.
type RenderInfo struct {
	// Name labels the call, from WithName. Empty when unset.
	Name string

	// Elements is the number of custom elements expanded.
	Elements int

	// Styles, Scripts and Links count collected resources before
	// deduplication.
	Styles  int
	Scripts int
	Links   int
}

// Middleware wraps a render call. It must call next to perform the render
// and should return next's error.
type Middleware func(ctx context.Context, info *RenderInfo, next func(context.Context) error) error

type nameKey struct{}

// WithName attaches a label to ctx that render calls report in RenderInfo,
// such as a request path or file name.
func WithName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, nameKey{}, name)
}

// NameFromContext returns the label set by WithName.
func NameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(nameKey{}).(string)
	return name
}

// chain composes middleware around final, first middleware outermost.
func chain(mw []Middleware, info *RenderInfo, final func(context.Context) error) func(context.Context) error {
	next := final
	for i := len(mw) - 1; i >= 0; i-- {
		m, inner := mw[i], next
		next = func(ctx context.Context) error {
			return m(ctx, info, inner)
		}
	}
	return next
}
