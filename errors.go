package devcmd

import (
	"errors"
	"fmt"
)

// Error is a coded parse failure. The exported values below are the only
// instances the Scanner and Parser return, so a failed parse never allocates.
type Error struct {
	// Code is the error code (e.g., "SYNTAX_ERROR")
	Code string
	// Message is the human-readable error message
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is reports every parse error as ErrParseFailed, so callers that only need
// the opaque outcome can check a single value.
func (e *Error) Is(target error) bool {
	return target == ErrParseFailed
}

// Error codes
const (
	ErrCodeLexical   = "LEXICAL_ERROR"
	ErrCodeOverflow  = "OVERFLOW"
	ErrCodeSyntax    = "SYNTAX_ERROR"
	ErrCodeExhausted = "STREAM_EXHAUSTED"
)

var (
	// ErrParseFailed matches every error returned by Parser.ParseCommand.
	ErrParseFailed = errors.New("parse failed")

	// ErrLexical: a byte is not allowed in the current scanner state.
	ErrLexical = &Error{Code: ErrCodeLexical, Message: "byte not allowed in current scanner state"}

	// ErrOverflow: a number left the signed 32-bit range, or an identifier
	// or string exceeded the scanner buffer.
	ErrOverflow = &Error{Code: ErrCodeOverflow, Message: "literal exceeds its fixed capacity"}

	// ErrSyntax: wrong token kind, unknown keyword or device, argument out
	// of range, or missing terminator.
	ErrSyntax = &Error{Code: ErrCodeSyntax, Message: "command does not match the grammar"}

	// ErrExhausted: the source ran out of bytes before a token was complete.
	ErrExhausted = &Error{Code: ErrCodeExhausted, Message: "byte source exhausted"}
)

// Code returns the code of a parse error, or "" when err is not one.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
