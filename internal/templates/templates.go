package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/vango-dev/enhance/internal/errors"
)

// Config contains template configuration.
type Config struct {
	// ProjectName is the name of the project.
	ProjectName string

	// Description is a short project description.
	Description string
}

// Template represents a project template.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files is a map of slash-separated relative paths to file contents.
	Files map[string]string
}

// Available templates.
var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"full":    fullTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("E043").
			WithDetailf("no template named %q", name).
			WithSuggestion("Available templates: minimal, full")
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create writes the template's files into dir.
func (t *Template) Create(dir string, cfg Config) error {
	for relPath, content := range t.Files {
		tmpl, err := template.New(relPath).Delims("[[", "]]").Parse(content)
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}

		fullPath := filepath.Join(dir, filepath.FromSlash(relPath))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
			return err
		}
	}
	return nil
}

const configFile = `# [[.ProjectName]]: [[.Description]]
elements: elements
pages: pages
server:
  port: 3000
`

func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "One element and one page",
		Files: map[string]string{
			"enhance.yaml": configFile,

			"elements/my-greeting.html": `<style>
  my-greeting { display: block; color: #2563eb; }
</style>
<h1>Hello, <slot>world</slot>!</h1>
`,

			"pages/index.html": `<!doctype html>
<html>
<head>
  <title>[[.ProjectName]]</title>
</head>
<body>
  <my-greeting></my-greeting>
</body>
</html>
`,
		},
	}
}

func fullTemplate() *Template {
	return &Template{
		Name:        "full",
		Description: "Layout elements, slots, markdown and a state file",
		Files: map[string]string{
			"enhance.yaml": configFile + "state: state.yaml\n",

			"state.yaml": `site:
  title: [[.ProjectName]]
  description: [[.Description]]
nav:
  - href: /
    label: Home
  - href: /about
    label: About
`,

			"elements/site-layout.html": `<style>
  site-layout { display: block; font-family: system-ui, sans-serif; max-width: 800px; margin: 0 auto; }
</style>
<site-nav></site-nav>
<header><slot name="title"><h1>{{ .Store.site.title }}</h1></slot></header>
<main><slot></slot></main>
<footer>{{ .Store.site.description }}</footer>
`,

			"elements/site-nav.html": `<style>
  site-nav ul { display: flex; gap: 1rem; list-style: none; padding: 0; }
</style>
<nav>
  <ul>
  {{- range .Store.nav }}
    <li><a href="{{ .href }}">{{ .label }}</a></li>
  {{- end }}
  </ul>
</nav>
`,

			"elements/site-counter.html": `<button type="button">{{ default "0" .Attrs.count }}</button>
<script>
  document.querySelectorAll("site-counter button").forEach((b) => {
    b.addEventListener("click", () => { b.textContent = Number(b.textContent) + 1 })
  })
</script>
`,

			"elements/site-prose.html": `<article>{{ markdown .Attrs.source }}</article>
`,

			"pages/index.html": `<!doctype html>
<html>
<head>
  <title>[[.ProjectName]]</title>
</head>
<body>
  <site-layout>
    <p>Edit pages/index.html and the elements directory.</p>
    <site-counter count="3"></site-counter>
  </site-layout>
</body>
</html>
`,

			"pages/about.html": `<!doctype html>
<html>
<head>
  <title>About [[.ProjectName]]</title>
</head>
<body>
  <site-layout>
    <h1 slot="title">About</h1>
    <site-prose source="Rendered from **markdown** on the server."></site-prose>
  </site-layout>
</body>
</html>
`,
		},
	}
}
