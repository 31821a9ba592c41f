// Package errors defines the coded error taxonomy shared across the scraping
// pipeline. Errors are split into two tiers: session-fatal conditions abort a
// scan (navigation failure, missing chart), while sample-local conditions are
// logged and skipped (absent tooltip, unparseable tooltip text).
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code identifies a failure class independent of the wrapped cause.
type Code string

const (
	// Session-fatal codes.
	CodeNavigation      Code = "NAVIGATION_FAILED"
	CodeElementNotFound Code = "ELEMENT_NOT_FOUND"
	CodeNoData          Code = "NO_DATA"

	// Sample-local codes.
	CodeTooltipAbsent Code = "TOOLTIP_ABSENT"
	CodeTooltipParse  Code = "TOOLTIP_PARSE_FAILED"

	// General codes.
	CodeConfig     Code = "CONFIG_INVALID"
	CodeFileSystem Code = "FILESYSTEM_ERROR"
	CodeLayout     Code = "LAYOUT_UNRECOGNIZED"
	CodeSeries     Code = "SERIES_INVALID"
)

// Error is a coded error with an operation name and optional cause.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Op)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error carrying the same code, so sentinel comparisons with
// errors.Is work regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if !stderrors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// New creates a coded error without a cause.
func New(code Code, op string) *Error {
	return &Error{Code: code, Op: op}
}

// Wrap attaches a code and operation to an underlying cause.
func Wrap(code Code, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// Sentinel values for errors.Is comparisons.
var (
	ErrNavigation      = &Error{Code: CodeNavigation}
	ErrElementNotFound = &Error{Code: CodeElementNotFound}
	ErrNoData          = &Error{Code: CodeNoData}
	ErrTooltipAbsent   = &Error{Code: CodeTooltipAbsent}
	ErrTooltipParse    = &Error{Code: CodeTooltipParse}
	ErrLayout          = &Error{Code: CodeLayout}
)

// CodeOf extracts the code from err, or empty when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsSessionFatal reports whether err aborts the whole scan session rather
// than a single sample.
func IsSessionFatal(err error) bool {
	switch CodeOf(err) {
	case CodeNavigation, CodeElementNotFound, CodeNoData:
		return true
	}
	return false
}

// IsSampleLocal reports whether err only invalidates the current sample and
// the sweep should continue with the step advanced.
func IsSampleLocal(err error) bool {
	switch CodeOf(err) {
	case CodeTooltipAbsent, CodeTooltipParse:
		return true
	}
	return false
}
