package elements

import (
	"io/fs"
	"path"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/vango-dev/enhance/internal/errors"
	"github.com/vango-dev/enhance/pkg/customelement"
	"github.com/vango-dev/enhance/pkg/expand"
	"github.com/vango-dev/enhance/pkg/transcode"
)

// Ext is the file extension of element templates.
const Ext = ".html"

// parseLine extracts the line number from a text/template parse error,
// which reads "template: name:line: message".
var parseLine = regexp.MustCompile(`^template: [^:]+:(\d+):`)

// Load compiles every element template in fsys, searching subdirectories.
// Files without the .html extension are ignored.
func Load(fsys fs.FS) (expand.Registry, error) {
	reg := make(expand.Registry)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.New("E012").WithDetailf("reading %s", p).Wrap(err)
		}
		if d.IsDir() || path.Ext(p) != Ext {
			return nil
		}

		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return errors.New("E012").WithDetailf("reading %s", p).Wrap(err)
		}
		return add(reg, p, src)
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// TagName returns the element name defined by the template file p.
func TagName(p string) string {
	return strings.TrimSuffix(path.Base(p), Ext)
}

func add(reg expand.Registry, file string, src []byte) error {
	tag := TagName(file)
	if !customelement.IsCustomElement(tag) {
		return errors.New("E011").
			WithDetailf("%q is not a valid custom element name", tag).
			WithLocation(file, 0, 0).
			WithSuggestion("Element names must start with a lowercase letter and contain a hyphen")
	}
	if _, dup := reg[tag]; dup {
		return errors.New("E011").
			WithDetailf("%s is defined more than once", tag).
			WithLocation(file, 0, 0)
	}

	fn, err := Compile(tag, src)
	if err != nil {
		var ee *errors.EnhanceError
		if errors.As(err, &ee) && ee.Location != nil {
			ee.Location.File = file
		}
		return err
	}
	reg[tag] = fn
	return nil
}

// Compile parses src as the template of element tag.
func Compile(tag string, src []byte) (expand.RenderFunc, error) {
	tmpl, err := template.New(tag).Funcs(funcs(transcode.Markup{})).Parse(string(src))
	if err != nil {
		line := 0
		if m := parseLine.FindStringSubmatch(err.Error()); m != nil {
			line, _ = strconv.Atoi(m[1])
		}
		return nil, errors.New("E010").
			WithDetailf("template for %s", tag).
			WithSource(tag+Ext, line, src).
			Wrap(err)
	}

	return func(m transcode.Markup, state *expand.State) (string, error) {
		t, err := tmpl.Clone()
		if err != nil {
			return "", err
		}
		var b strings.Builder
		if err := t.Funcs(funcs(m)).Execute(&b, state); err != nil {
			return "", err
		}
		return b.String(), nil
	}, nil
}
