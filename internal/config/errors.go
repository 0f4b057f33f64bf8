package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidValue indicates a setting outside its allowed range.
	ErrInvalidValue = errors.New("config: invalid value")

	// ErrUnknownFormat indicates a config file extension with no loader.
	ErrUnknownFormat = errors.New("config: unknown file format")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Line is the line number where the error occurred (if available).
	Line int
	// Column is the column number where the error occurred (if available).
	Column int
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// invalid wraps ErrInvalidValue with the offending setting path.
func invalid(path string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidValue, path, fmt.Sprintf(format, args...))
}
