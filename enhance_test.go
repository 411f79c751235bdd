package enhance

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vango-dev/enhance/internal/errors"
	"github.com/vango-dev/enhance/pkg/expand"
	"github.com/vango-dev/enhance/pkg/transcode"
)

func static(markup string) expand.RenderFunc {
	return func(transcode.Markup, *expand.State) (string, error) {
		return markup, nil
	}
}

func mustNew(t *testing.T, opts ...Option) *Enhancer {
	t.Helper()
	e, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestRender_ExpandsWithSlot(t *testing.T) {
	e := mustNew(t,
		WithBodyContent(true),
		WithElements(expand.Registry{"x-greet": static(`<p>hi <slot></slot></p>`)}),
	)

	got, err := e.RenderString(context.Background(), `<x-greet>world</x-greet>`)
	if err != nil {
		t.Fatal(err)
	}
	want := `<x-greet enhanced="✨"><p>hi world</p></x-greet>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_FullDocument(t *testing.T) {
	e := mustNew(t, WithElements(expand.Registry{"x-a": static(`<b>a</b>`)}))

	got, err := e.RenderString(context.Background(), `<!doctype html><html><head><title>t</title></head><body><x-a></x-a></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	want := `<!DOCTYPE html><html><head><title>t</title></head><body><x-a enhanced="✨"><b>a</b></x-a></body></html>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_DedupesStyles(t *testing.T) {
	e := mustNew(t,
		WithSeparateContent(true),
		WithElements(expand.Registry{"x-a": static(`<style>.a{}</style><i>a</i>`)}),
	)

	out, err := e.HTML(context.Background(), `<x-a></x-a><x-a></x-a>`)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Separated {
		t.Fatal("expected separated output")
	}
	if out.Head != `<style>.a{}</style>` {
		t.Errorf("Head = %q", out.Head)
	}
	if strings.Contains(out.Body, "<style>") {
		t.Errorf("style left in body: %q", out.Body)
	}
	if n := strings.Count(out.Body, "<i>a</i>"); n != 2 {
		t.Errorf("Body has %d instances, want 2: %q", n, out.Body)
	}
}

func TestRender_HoistsScriptsAndLinks(t *testing.T) {
	e := mustNew(t,
		WithSeparateContent(true),
		WithElements(expand.Registry{
			"x-a": static(`<script>run()</script><link rel="stylesheet" href="/a.css"><p>a</p>`),
			"x-b": static(`<link href="/a.css" rel="stylesheet"><script>run()</script>`),
		}),
	)

	out, err := e.HTML(context.Background(), `<x-a></x-a><x-b></x-b>`)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out.Head, "<link"); n != 1 {
		t.Errorf("Head has %d links, want 1: %q", n, out.Head)
	}
	if n := strings.Count(out.Body, "<script>run()</script>"); n != 1 {
		t.Errorf("Body has %d scripts, want 1: %q", n, out.Body)
	}
	if !strings.HasSuffix(out.Body, "<script>run()</script>") {
		t.Errorf("script not appended to body: %q", out.Body)
	}
}

func TestRender_TableCellTemplate(t *testing.T) {
	e := mustNew(t,
		WithBodyContent(true),
		WithEnhancedAttr(false),
		WithElements(expand.Registry{"x-cell": static(`<td><slot></slot></td>`)}),
	)

	got, err := e.RenderString(context.Background(), `<x-cell>v</x-cell>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<x-cell><td>v</td></x-cell>`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_RepeatedRendersDoNotDuplicateResources(t *testing.T) {
	e := mustNew(t,
		WithSeparateContent(true),
		WithElements(expand.Registry{
			"x-a": static(`<style>.a{}</style><link rel="stylesheet" href="/a.css"><script>run()</script><p>a</p>`),
		}),
	)

	const doc = `<x-a></x-a><x-a></x-a>`
	for i := range 2 {
		out, err := e.HTML(context.Background(), doc)
		if err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
		if n := strings.Count(out.Head, "<style>"); n != 1 {
			t.Errorf("render %d: Head has %d styles, want 1: %q", i, n, out.Head)
		}
		if n := strings.Count(out.Head, ".a{}"); n != 1 {
			t.Errorf("render %d: style body appears %d times, want 1: %q", i, n, out.Head)
		}
		if n := strings.Count(out.Head, "<link"); n != 1 {
			t.Errorf("render %d: Head has %d links, want 1: %q", i, n, out.Head)
		}
		if n := strings.Count(out.Body, "<script>run()</script>"); n != 1 {
			t.Errorf("render %d: Body has %d scripts, want 1: %q", i, n, out.Body)
		}
	}
}

func TestRender_NestedElements(t *testing.T) {
	e := mustNew(t,
		WithBodyContent(true),
		WithEnhancedAttr(false),
		WithElements(expand.Registry{
			"x-outer": static(`<div><x-inner><slot></slot></x-inner></div>`),
			"x-inner": static(`<span><slot></slot></span>`),
		}),
	)

	got, err := e.RenderString(context.Background(), `<x-outer>deep</x-outer>`)
	if err != nil {
		t.Fatal(err)
	}
	want := `<x-outer><div><x-inner><span>deep</span></x-inner></div></x-outer>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_PassesValuesThroughAttributes(t *testing.T) {
	items := []string{"a", "b"}
	var gotItems any
	var gotCount any

	e := mustNew(t,
		WithBodyContent(true),
		WithElements(expand.Registry{
			"x-list": func(m transcode.Markup, s *expand.State) (string, error) {
				gotItems = s.Attrs["items"]
				gotCount = s.Attrs["count"]
				return `<ul></ul>`, nil
			},
		}),
	)

	out, err := e.Render(context.Background(),
		[]string{`<x-list items="`, `" count="`, `"></x-list>`},
		items, 2,
	)
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := gotItems.([]string); !ok || len(s) != 2 || s[0] != "a" {
		t.Errorf("items = %#v", gotItems)
	}
	if gotCount != "2" {
		t.Errorf("count = %#v, want \"2\"", gotCount)
	}
	if strings.Contains(out.HTML, transcode.TokenPrefix) {
		t.Errorf("token left in output: %q", out.HTML)
	}
}

func TestRender_StateContextAndStore(t *testing.T) {
	var ids []string
	e := mustNew(t,
		WithBodyContent(true),
		WithInitialState(map[string]any{"greeting": "hello"}),
		WithIDGenerator(func() string { return fmt.Sprintf("id%d", len(ids)) }),
		WithElements(expand.Registry{
			"x-count": func(m transcode.Markup, s *expand.State) (string, error) {
				ids = append(ids, s.InstanceID)
				n, _ := s.Context["n"].(int)
				s.Context["n"] = n + 1
				renders, _ := s.Store["renders"].(int)
				s.Store["renders"] = renders + 1
				return fmt.Sprintf("%s %d", s.Store["greeting"], n), nil
			},
		}),
	)

	ctx := context.Background()
	got, err := e.RenderString(ctx, `<x-count></x-count><x-count></x-count>`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "hello 0") || !strings.Contains(got, "hello 1") {
		t.Errorf("context not shared within a render: %q", got)
	}
	if ids[0] == ids[1] {
		t.Errorf("instance IDs not unique: %v", ids)
	}

	got, err = e.RenderString(ctx, `<x-count></x-count>`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "hello 0") {
		t.Errorf("context leaked across renders: %q", got)
	}
	if e.Store()["renders"] != 3 {
		t.Errorf("store renders = %v, want 3", e.Store()["renders"])
	}
}

func TestRender_UnregisteredElement(t *testing.T) {
	e := mustNew(t, WithBodyContent(true))

	_, err := e.RenderString(context.Background(), `<x-missing></x-missing>`)
	if !errors.Is(err, ErrUnresolvedTemplate) {
		t.Fatalf("err = %v, want E001", err)
	}
	if !strings.Contains(err.Error(), "could not find the template function for x-missing") {
		t.Errorf("err = %v", err)
	}
}

func TestRender_PassthroughUnknown(t *testing.T) {
	e := mustNew(t, WithBodyContent(true), WithPassthroughUnknown(true))

	got, err := e.RenderString(context.Background(), `<x-missing>keep</x-missing>`)
	if err != nil {
		t.Fatal(err)
	}
	if got != `<x-missing>keep</x-missing>` {
		t.Errorf("got %q", got)
	}
}

func TestRender_IgnoresPlainAndReservedElements(t *testing.T) {
	e := mustNew(t, WithBodyContent(true))

	in := `<div><p>x</p></div><font-face></font-face><annotation-xml></annotation-xml>`
	got, err := e.RenderString(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if got != in {
		t.Errorf("got %q, want %q", got, in)
	}
}

func TestRender_RenderFunctionError(t *testing.T) {
	boom := stderrors.New("boom")
	e := mustNew(t, WithElements(expand.Registry{
		"x-bad": func(transcode.Markup, *expand.State) (string, error) { return "", boom },
	}))

	_, err := e.RenderString(context.Background(), `<x-bad></x-bad>`)
	if !errors.Is(err, ErrRenderFunction) {
		t.Errorf("err = %v, want E004", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v does not wrap cause", err)
	}
}

func TestRender_TransformFailure(t *testing.T) {
	e := mustNew(t,
		WithElements(expand.Registry{"x-a": static(`<style>.a{}</style>`)}),
		WithStyleTransforms(func(expand.TransformInput) (string, error) {
			return "", stderrors.New("bad css")
		}),
	)

	_, err := e.RenderString(context.Background(), `<x-a></x-a>`)
	if !errors.Is(err, ErrTransformFailure) {
		t.Errorf("err = %v, want E003", err)
	}
}

func TestRender_Transforms(t *testing.T) {
	var styleIn, scriptIn expand.TransformInput
	e := mustNew(t,
		WithSeparateContent(true),
		WithElements(expand.Registry{"x-a": static(`<style>.a{}</style><script>go()</script>`)}),
		WithStyleTransforms(func(in expand.TransformInput) (string, error) {
			styleIn = in
			return "x-a " + in.Raw, nil
		}),
		WithScriptTransforms(func(in expand.TransformInput) (string, error) {
			scriptIn = in
			return in.Raw + ";", nil
		}),
	)

	out, err := e.HTML(context.Background(), `<x-a></x-a>`)
	if err != nil {
		t.Fatal(err)
	}
	if styleIn.TagName != "x-a" || styleIn.Context != expand.ContextMarkup {
		t.Errorf("style input = %+v", styleIn)
	}
	if scriptIn.TagName != "x-a" || scriptIn.Context != "" {
		t.Errorf("script input = %+v", scriptIn)
	}
	if out.Head != `<style>x-a .a{}</style>` {
		t.Errorf("Head = %q", out.Head)
	}
	if !strings.Contains(out.Body, `<script>go();</script>`) {
		t.Errorf("Body = %q", out.Body)
	}
}

func TestNew_ConflictingOutputModes(t *testing.T) {
	_, err := New(WithBodyContent(true), WithSeparateContent(true))
	var ee *errors.EnhanceError
	if !errors.As(err, &ee) || ee.Code != "E022" {
		t.Fatalf("err = %v, want E022", err)
	}
}

func TestSetElements(t *testing.T) {
	e := mustNew(t, WithBodyContent(true), WithEnhancedAttr(false))
	e.SetElements(expand.Registry{"x-a": static(`v2`)})

	got, err := e.RenderString(context.Background(), `<x-a></x-a>`)
	if err != nil {
		t.Fatal(err)
	}
	if got != `<x-a>v2</x-a>` {
		t.Errorf("got %q", got)
	}
}

func TestMiddleware(t *testing.T) {
	var order []string
	var seen *RenderInfo
	mw := func(tag string) Middleware {
		return func(ctx context.Context, info *RenderInfo, next func(context.Context) error) error {
			order = append(order, tag+">")
			err := next(ctx)
			order = append(order, "<"+tag)
			seen = info
			return err
		}
	}

	e := mustNew(t,
		WithMiddleware(mw("a"), mw("b")),
		WithElements(expand.Registry{"x-a": static(`<style>.a{}</style>`)}),
	)
	ctx := WithName(context.Background(), "/index")
	if _, err := e.HTML(ctx, `<x-a></x-a><x-a></x-a>`); err != nil {
		t.Fatal(err)
	}

	if got := strings.Join(order, ""); got != "a>b><b<a" {
		t.Errorf("order = %q", got)
	}
	if seen.Name != "/index" || seen.Elements != 2 || seen.Styles != 2 {
		t.Errorf("info = %+v", seen)
	}
}

func TestRender_CanceledContext(t *testing.T) {
	e := mustNew(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.HTML(ctx, `<p>x</p>`); !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
