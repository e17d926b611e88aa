package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates a document could not be decoded.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a $ref could not be resolved.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a $ref pointed back into its own resolution chain.
	ErrCircularReference = errors.New("circular reference")

	// ErrExternalReference indicates a $ref pointed outside the current document.
	ErrExternalReference = errors.New("external reference")

	// ErrReferenceNotFound indicates a $ref pointer did not lead to a value.
	ErrReferenceNotFound = errors.New("reference not found")

	// ErrValidation indicates a document does not have the minimal OpenAPI shape.
	ErrValidation = errors.New("validation error")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrSource indicates a document source could not be read.
	ErrSource = errors.New("source error")
)

// message assembles "<kind><details>: <msg>: <cause>", skipping empty parts.
type message struct {
	strings.Builder
}

func newMessage(kind string) *message {
	m := &message{}
	m.WriteString(kind)
	return m
}

// detail appends format when cond holds.
func (m *message) detail(cond bool, format string, args ...any) *message {
	if cond {
		fmt.Fprintf(&m.Builder, format, args...)
	}
	return m
}

func (m *message) finish(msg string, cause error) string {
	if msg != "" {
		m.WriteString(": " + msg)
	}
	if cause != nil {
		m.WriteString(": " + cause.Error())
	}
	return m.String()
}

// ParseError represents a failure to decode a specification document.
type ParseError struct {
	// Path is the file path or source name.
	Path string
	// Line and Column locate the failure; zero when unknown.
	Line   int
	Column int
	// Message describes the failure.
	Message string
	// Cause is the decoder error, if any.
	Cause error
}

func (e *ParseError) Error() string {
	return newMessage("parse error").
		detail(e.Path != "", " in %s", e.Path).
		detail(e.Line > 0, " at line %d", e.Line).
		detail(e.Line > 0 && e.Column > 0, ", column %d", e.Column).
		finish(e.Message, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Is matches ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ReferenceError describes a $ref that could not be replaced by its target.
//
// The resolver never returns these directly; it substitutes a marker value and the
// marker converts itself into a ReferenceError for callers that want an error.
type ReferenceError struct {
	// Ref is the reference string.
	Ref string
	// At most one of the flags below is set.
	IsCircular bool
	IsExternal bool
	IsNotFound bool
	// Message provides additional context.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// sentinel returns the most specific sentinel for the error.
func (e *ReferenceError) sentinel() error {
	switch {
	case e.IsCircular:
		return ErrCircularReference
	case e.IsExternal:
		return ErrExternalReference
	case e.IsNotFound:
		return ErrReferenceNotFound
	}
	return ErrReference
}

func (e *ReferenceError) Error() string {
	return newMessage(e.sentinel().Error()).
		detail(e.Ref != "", ": %s", e.Ref).
		finish(e.Message, e.Cause)
}

func (e *ReferenceError) Unwrap() error { return e.Cause }

// Is matches ErrReference and the sentinel of whichever flag is set.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrReference || target == e.sentinel()
}

// ValidationError reports that a document is missing part of the minimal
// OpenAPI structure the explorer needs.
type ValidationError struct {
	// Path is the JSON pointer of the offending location, e.g. "/paths".
	Path string
	// Field is the offending field under Path.
	Field string
	// Message describes the failure.
	Message string
	// Cause is the schema validation error, if any.
	Cause error
}

func (e *ValidationError) Error() string {
	return newMessage("validation error").
		detail(e.Path != "", " at %s", e.Path).
		detail(e.Field != "", ".%s", e.Field).
		finish(e.Message, e.Cause)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ResourceLimitError reports that an input exceeded a configured limit.
type ResourceLimitError struct {
	// ResourceType names the limit, e.g. "file_size" or "documents".
	ResourceType string
	// Limit is the configured maximum.
	Limit int64
	// Actual is the observed value, or 0 when unknown.
	Actual int64
	// Message provides additional context.
	Message string
}

func (e *ResourceLimitError) Error() string {
	return newMessage("resource limit exceeded").
		detail(e.ResourceType != "", ": %s", e.ResourceType).
		detail(e.Limit > 0, " (limit: %d", e.Limit).
		detail(e.Limit > 0 && e.Actual > 0, ", actual: %d", e.Actual).
		detail(e.Limit > 0, ")").
		finish(e.Message, nil)
}

// Unwrap returns nil; a limit has no underlying cause.
func (e *ResourceLimitError) Unwrap() error { return nil }

// Is matches ErrResourceLimit.
func (e *ResourceLimitError) Is(target error) bool { return target == ErrResourceLimit }

// ConfigError reports an invalid option or input: missing sources, conflicting
// sources and out-of-range values.
type ConfigError struct {
	// Option names the offending option.
	Option string
	// Value is the rejected value, or nil.
	Value any
	// Message describes the problem.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *ConfigError) Error() string {
	return newMessage("configuration error").
		detail(e.Option != "", " for %s", e.Option).
		detail(e.Value != nil, " (value: %v)", e.Value).
		finish(e.Message, e.Cause)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// Is matches ErrConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// SourceError reports that a document could not be read from its source.
type SourceError struct {
	// Source is the file path, URL or name of the source.
	Source string
	// StatusCode is the HTTP status for URL sources, 0 otherwise.
	StatusCode int
	// Cause is the underlying error, if any.
	Cause error
}

func (e *SourceError) Error() string {
	return newMessage("source error").
		detail(e.Source != "", " for %s", e.Source).
		detail(e.StatusCode != 0, " (HTTP %d)", e.StatusCode).
		finish("", e.Cause)
}

func (e *SourceError) Unwrap() error { return e.Cause }

// Is matches ErrSource.
func (e *SourceError) Is(target error) bool { return target == ErrSource }
