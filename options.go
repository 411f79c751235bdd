package enhance

import (
	"log/slog"

	"github.com/vango-dev/enhance/pkg/expand"
	"github.com/vango-dev/enhance/pkg/idgen"
)

// =============================================================================
// Configuration
// =============================================================================

// Config configures an Enhancer. Build it with Options passed to New.
type Config struct {
	// InitialState seeds the store shared by all render calls.
	// It is copied, so later changes to the map are not seen.
	InitialState map[string]any

	// Elements maps custom element tag names to render functions.
	Elements expand.Registry

	// ScriptTransforms rewrite script bodies, in order.
	ScriptTransforms []expand.Transform

	// StyleTransforms rewrite style bodies, in order.
	StyleTransforms []expand.Transform

	// IDGenerator produces instance IDs. Default: 7 characters of [0-9a-z].
	IDGenerator idgen.Func

	// BodyContent renders only the inner markup of the body.
	BodyContent bool

	// SeparateContent renders head and body separately.
	SeparateContent bool

	// EnhancedAttr marks each expanded element with enhanced="✨".
	// Default: true.
	EnhancedAttr bool

	// PassthroughUnknown leaves custom elements without a render function
	// untouched instead of failing the render.
	PassthroughUnknown bool

	// Logger receives debug logs for expansions and renders.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Middleware wraps every render call, outermost first.
	Middleware []Middleware
}

// Option configures an Enhancer.
type Option func(*Config)

// defaultConfig returns the configuration used before options apply.
func defaultConfig() Config {
	return Config{
		EnhancedAttr: true,
	}
}

// WithInitialState seeds the persistent store.
func WithInitialState(state map[string]any) Option {
	return func(c *Config) {
		c.InitialState = state
	}
}

// WithElements sets the element registry.
func WithElements(elements expand.Registry) Option {
	return func(c *Config) {
		c.Elements = elements
	}
}

// WithScriptTransforms appends script transforms.
func WithScriptTransforms(transforms ...expand.Transform) Option {
	return func(c *Config) {
		c.ScriptTransforms = append(c.ScriptTransforms, transforms...)
	}
}

// WithStyleTransforms appends style transforms.
func WithStyleTransforms(transforms ...expand.Transform) Option {
	return func(c *Config) {
		c.StyleTransforms = append(c.StyleTransforms, transforms...)
	}
}

// WithIDGenerator sets the instance ID generator.
func WithIDGenerator(gen idgen.Func) Option {
	return func(c *Config) {
		c.IDGenerator = gen
	}
}

// WithBodyContent selects body-only output.
func WithBodyContent(enabled bool) Option {
	return func(c *Config) {
		c.BodyContent = enabled
	}
}

// WithSeparateContent selects separate head and body output.
func WithSeparateContent(enabled bool) Option {
	return func(c *Config) {
		c.SeparateContent = enabled
	}
}

// WithEnhancedAttr enables or disables the enhanced attribute.
func WithEnhancedAttr(enabled bool) Option {
	return func(c *Config) {
		c.EnhancedAttr = enabled
	}
}

// WithPassthroughUnknown leaves unregistered custom elements untouched.
func WithPassthroughUnknown(enabled bool) Option {
	return func(c *Config) {
		c.PassthroughUnknown = enabled
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMiddleware appends render middleware.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *Config) {
		c.Middleware = append(c.Middleware, mw...)
	}
}
