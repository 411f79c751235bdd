package errors

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryRender   Category = "render"
	CategoryTemplate Category = "template"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// Location represents a source location, typically an element template file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return l.File
}

// EnhanceError is a structured error with a code, optional location and hint.
type EnhanceError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer, instance-specific explanation.
	Detail string

	// Location is the source location where the error occurred.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *EnhanceError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *EnhanceError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *EnhanceError with the same non-empty code.
func (e *EnhanceError) Is(target error) bool {
	t, ok := target.(*EnhanceError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithLocation adds a source location and, when the file is readable,
// the lines around it.
func (e *EnhanceError) WithLocation(file string, line, column int) *EnhanceError {
	e.Location = &Location{File: file, Line: line, Column: column}
	if line > 0 {
		e.Context = readContextLines(file, line, 5)
	}
	return e
}

// WithSource adds a location whose context lines come from src rather than
// the filesystem, for templates loaded from memory or object storage.
func (e *EnhanceError) WithSource(file string, line int, src []byte) *EnhanceError {
	e.Location = &Location{File: file, Line: line}
	if line > 0 {
		e.Context = contextLines(bufio.NewScanner(bytes.NewReader(src)), line, 5)
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *EnhanceError) WithSuggestion(s string) *EnhanceError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *EnhanceError) WithDetail(d string) *EnhanceError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detailed explanation to the error.
func (e *EnhanceError) WithDetailf(format string, args ...any) *EnhanceError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *EnhanceError) Wrap(err error) *EnhanceError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	return contextLines(bufio.NewScanner(file), targetLine, contextSize)
}

func contextLines(scanner *bufio.Scanner, targetLine, contextSize int) []string {
	var lines []string
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}
	return lines
}

// New creates an EnhanceError from a registered error code.
func New(code string) *EnhanceError {
	template, ok := registry[code]
	if !ok {
		return &EnhanceError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &EnhanceError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new EnhanceError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *EnhanceError {
	return &EnhanceError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an EnhanceError.
func FromError(err error, code string) *EnhanceError {
	if err == nil {
		return nil
	}
	if ee, ok := err.(*EnhanceError); ok {
		return ee
	}
	return New(code).Wrap(err)
}
