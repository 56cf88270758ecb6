package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrTrailingData    = errors.New("trailing data after top-level JSON value")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: pass a file path or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
)

// Process exit codes reported by the CLI.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitInput   = 2
	ExitParse   = 3
	ExitOutput  = 4
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeFlatten ErrorType = "flatten"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	// Check if target is also an *AppError and if the types match
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ParseError pins a failed JSON parse to a position in the input: a
// 1-based line number in JSON-Lines mode, a byte offset (plus derived
// line) in single-document mode. Zero fields mean the position is
// unknown.
type ParseError struct {
	Line   int
	Offset int64
	Err    error
}

// Error implements error interface
func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Offset > 0:
		return fmt.Sprintf("line %d (offset %d): %v", e.Line, e.Offset, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	case e.Offset > 0:
		return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying syntax error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewFlattenError creates a new error related to table flattening
func NewFlattenError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeFlatten,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// ExitCode maps an error to the process exit status: 2 for input
// problems, 3 for parse failures, 4 for output failures, 1 for
// anything else.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return ExitInput
		case ErrorTypeParsing:
			return ExitParse
		case ErrorTypeOutput:
			return ExitOutput
		}
	}
	return ExitFailure
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			if detail := parseDetail(appErr); detail != "" {
				return fmt.Sprintf("JSON parsing error: %s (%s)", appErr.Message, detail)
			}
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeFlatten:
			return fmt.Sprintf("Flattening error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrTrailingData) {
		return "Error: Extra data found after the first JSON value. Provide a single document or one JSON value per line."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Pass a file path or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}

func parseDetail(err error) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Error()
	}
	return ""
}
