// Package templates provides project scaffolding templates.
//
// Each template is a set of files written into a new project directory:
// an enhance.yaml, element definitions under elements/ and pages under
// pages/.
//
// # Available Templates
//
//   - minimal: one element and one page
//   - full: layout elements, slots, a markdown element and a state file
//
// # Usage
//
//	tmpl, err := templates.Get("full")
//	if err != nil {
//	    return err
//	}
//	if err := tmpl.Create(projectDir, templates.Config{ProjectName: "site"}); err != nil {
//	    return err
//	}
//
// # Template Variables
//
// File contents are Go templates executed with [[ ]] delimiters, so the
// {{ }} actions inside element definitions pass through untouched:
//
//	[[.ProjectName]]     - Name of the project
//	[[.Description]]     - Project description
package templates
