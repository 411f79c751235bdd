// Package errors provides structured, coded errors for enhance.
//
// Every failure that aborts a render call, a template load or a CLI command
// is an *EnhanceError carrying a stable code, a category, a short message
// and optional detail, source location, hint and wrapped cause.
//
// # Error Codes
//
//   - E001-E009: render failures (unresolved template, malformed document,
//     transform and render-function failures)
//   - E010-E019: element template loading
//   - E020-E039: configuration
//   - E040-E059: command line
//
// # Usage
//
//	err := errors.New("E001").
//	    WithDetail(`No render function is registered for "x-card".`).
//	    WithSuggestion("Add an x-card.html template to the elements directory")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E001: Missing template function
//	//
//	//   No render function is registered for "x-card".
//	//
//	//   Hint: Add an x-card.html template to the elements directory
//
// Errors with the same code match under errors.Is, so callers can test for
// a kind of failure without inspecting messages:
//
//	if errors.Is(err, errors.New("E001")) { ... }
package errors
