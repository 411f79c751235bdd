// Package enhance renders HTML documents whose custom elements are expanded
// on the server.
//
// Each custom element with a registered render function is replaced by the
// markup that function returns. The element's original children are placed
// into the template's slots, and the styles, scripts and links the template
// emits are deduplicated and hoisted into the document head and body.
//
// Usage:
//
//	e, err := enhance.New(
//	    enhance.WithElements(expand.Registry{
//	        "x-greet": func(m transcode.Markup, s *expand.State) (string, error) {
//	            return `<p>hi <slot></slot></p>`, nil
//	        },
//	    }),
//	)
//	out, err := e.HTML(ctx, `<x-greet>world</x-greet>`)
package enhance

import (
	"context"
	"log/slog"
	"maps"
	"sync"

	"golang.org/x/net/html"

	"github.com/vango-dev/enhance/internal/errors"
	"github.com/vango-dev/enhance/pkg/customelement"
	"github.com/vango-dev/enhance/pkg/dom"
	"github.com/vango-dev/enhance/pkg/expand"
	"github.com/vango-dev/enhance/pkg/idgen"
	"github.com/vango-dev/enhance/pkg/resources"
	"github.com/vango-dev/enhance/pkg/slots"
	"github.com/vango-dev/enhance/pkg/transcode"
)

// EnhancedAttr and EnhancedAttrValue form the marker attribute added to
// every expanded element.
const (
	EnhancedAttr      = "enhanced"
	EnhancedAttrValue = "✨"
)

// Sentinel errors for errors.Is. Errors returned by Render carry the same
// codes with details attached.
var (
	ErrUnresolvedTemplate = errors.New("E001")
	ErrMalformedDocument  = errors.New("E002")
	ErrTransformFailure   = errors.New("E003")
	ErrRenderFunction     = errors.New("E004")
)

// Enhancer expands custom elements in documents. The store persists across
// render calls.
//
// An Enhancer is not safe for concurrent Render calls; callers that share one
// must serialize access. SetElements may be called between renders.
type Enhancer struct {
	config Config
	codec  *transcode.Codec
	store  map[string]any
	logger *slog.Logger

	mu       sync.RWMutex
	elements expand.Registry
}

// Output is the result of one render call.
type Output struct {
	// HTML is the full document, or the body's inner markup in body-only
	// mode. Empty in separate mode.
	HTML string

	// Head and Body hold the inner markup of each in separate mode.
	Head string
	Body string

	// Separated reports whether Head and Body are set instead of HTML.
	Separated bool
}

// String returns HTML, or Head followed by Body in separate mode.
func (o Output) String() string {
	if o.Separated {
		return o.Head + o.Body
	}
	return o.HTML
}

// New creates an Enhancer with the given options.
func New(opts ...Option) (*Enhancer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.BodyContent && cfg.SeparateContent {
		return nil, errors.New("E022").
			WithDetail("bodyContent and separateContent are both set").
			WithSuggestion("Choose one output mode")
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = idgen.Default()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store := make(map[string]any, len(cfg.InitialState))
	maps.Copy(store, cfg.InitialState)

	return &Enhancer{
		config:   cfg,
		codec:    transcode.NewCodec(),
		store:    store,
		logger:   logger.With("component", "enhance"),
		elements: cfg.Elements,
	}, nil
}

// Store returns the persistent store. Render functions see the same map
// through State.Store.
func (e *Enhancer) Store() map[string]any {
	return e.store
}

// Elements returns the current element registry.
func (e *Enhancer) Elements() expand.Registry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.elements
}

// SetElements replaces the element registry used by later renders.
func (e *Enhancer) SetElements(elements expand.Registry) {
	e.mu.Lock()
	e.elements = elements
	e.mu.Unlock()
}

// HTML renders a complete markup string.
func (e *Enhancer) HTML(ctx context.Context, markup string) (Output, error) {
	return e.Render(ctx, []string{markup})
}

// RenderString is HTML returning Output.String().
func (e *Enhancer) RenderString(ctx context.Context, markup string) (string, error) {
	out, err := e.HTML(ctx, markup)
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// Render interleaves literals with values, expands every registered custom
// element and serializes the result according to the output mode.
// Values that are not strings or numbers travel through attributes as
// placeholder tokens and reach render functions intact.
func (e *Enhancer) Render(ctx context.Context, literals []string, values ...any) (Output, error) {
	info := &RenderInfo{Name: NameFromContext(ctx)}
	var out Output

	run := chain(e.config.Middleware, info, func(ctx context.Context) error {
		var err error
		out, err = e.render(ctx, info, literals, values)
		return err
	})
	if err := run(ctx); err != nil {
		e.logger.Debug("render failed", "name", info.Name, "error", err)
		return Output{}, err
	}
	e.logger.Debug("render complete",
		"name", info.Name,
		"elements", info.Elements,
		"styles", info.Styles,
		"scripts", info.Scripts,
		"links", info.Links,
	)
	return out, nil
}

func (e *Enhancer) render(ctx context.Context, info *RenderInfo, literals []string, values []any) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	markup := e.codec.Markup().Join(literals, values...)
	doc, err := dom.Parse(markup)
	if err != nil {
		return Output{}, errors.New("E002").Wrap(err)
	}
	head, body := dom.HeadAndBody(doc)
	if head == nil || body == nil {
		return Output{}, errors.New("E002").WithDetail("document has no head or body")
	}

	opts := expand.Options{
		Registry:         e.Elements(),
		Codec:            e.codec,
		ScriptTransforms: e.config.ScriptTransforms,
		StyleTransforms:  e.config.StyleTransforms,
	}
	shared := make(map[string]any)
	var collector resources.Collector

	err = dom.Walk(body, func(n *html.Node) error {
		if n.Namespace != "" || !customelement.IsCustomElement(n.Data) {
			return nil
		}
		if e.config.PassthroughUnknown {
			if _, ok := opts.Registry.Lookup(n.Data); !ok {
				e.logger.Debug("skipping unregistered element", "tag", n.Data)
				return nil
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return e.expandElement(n, opts, shared, &collector, info)
	})
	if err != nil {
		return Output{}, err
	}

	info.Styles, info.Scripts, info.Links = collector.Counts()
	collector.Apply(head, body)

	return e.serialize(doc, head, body)
}

func (e *Enhancer) expandElement(n *html.Node, opts expand.Options, shared map[string]any, collector *resources.Collector, info *RenderInfo) error {
	state := &expand.State{
		Context:    shared,
		InstanceID: e.config.IDGenerator(),
		Store:      e.store,
	}
	res, err := expand.Expand(n, state, opts)
	if err != nil {
		return err
	}

	if e.config.EnhancedAttr {
		dom.AddAttr(n, EnhancedAttr, EnhancedAttrValue)
	}
	collector.Add(res.Styles, res.Scripts, res.Links)
	slots.Fill(n, res.Fragment)

	info.Elements++
	e.logger.Debug("expanded element", "tag", n.Data, "id", state.InstanceID)
	return nil
}

func (e *Enhancer) serialize(doc, head, body *html.Node) (Output, error) {
	var out Output
	var err error

	switch {
	case e.config.SeparateContent:
		out.Separated = true
		if out.Head, err = dom.RenderInner(head); err != nil {
			break
		}
		out.Body, err = dom.RenderInner(body)
		out.Head = transcode.Strip(out.Head)
		out.Body = transcode.Strip(out.Body)
	case e.config.BodyContent:
		out.HTML, err = dom.RenderInner(body)
		out.HTML = transcode.Strip(out.HTML)
	default:
		out.HTML, err = dom.Render(doc)
		out.HTML = transcode.Strip(out.HTML)
	}
	if err != nil {
		return Output{}, errors.New("E005").Wrap(err)
	}
	return out, nil
}
