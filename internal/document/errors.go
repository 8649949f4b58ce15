package document

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPath is returned by Load and Save before any I/O when the
	// path is the empty string.
	ErrEmptyPath = errors.New("document: empty path")

	// ErrUnsupported is returned by Resize for any request that would change
	// the canvas dimensions.
	ErrUnsupported = errors.New("document: unsupported operation")
)

// FormatErrorCode categorizes PiXd decoding failures.
type FormatErrorCode string

const (
	// ErrCodeBadMagic indicates the first four bytes are not "PiXd".
	ErrCodeBadMagic FormatErrorCode = "BAD_MAGIC"

	// ErrCodeInvalidDimensions indicates a zero width or height.
	ErrCodeInvalidDimensions FormatErrorCode = "INVALID_DIMENSIONS"

	// ErrCodeTruncated indicates the input ended before the header or the
	// full canvas was read.
	ErrCodeTruncated FormatErrorCode = "TRUNCATED"

	// ErrCodeTrailingData indicates bytes after the last canvas cell.
	ErrCodeTrailingData FormatErrorCode = "TRAILING_DATA"
)

// FormatError reports a malformed PiXd stream.
type FormatError struct {
	Code    FormatErrorCode
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newFormatError(code FormatErrorCode, format string, args ...any) *FormatError {
	return &FormatError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsFormatError reports whether err (or anything it wraps) is a *FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

func hasFormatCode(err error, code FormatErrorCode) bool {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe.Code == code
	}
	return false
}

// IsBadMagic reports whether err is a bad-magic format error.
func IsBadMagic(err error) bool { return hasFormatCode(err, ErrCodeBadMagic) }

// IsInvalidDimensions reports whether err is an invalid-dimensions format error.
func IsInvalidDimensions(err error) bool { return hasFormatCode(err, ErrCodeInvalidDimensions) }

// IsTruncated reports whether err is a truncation format error.
func IsTruncated(err error) bool { return hasFormatCode(err, ErrCodeTruncated) }

// AllocationError is returned when a canvas of the requested size cannot be
// allocated. Dimensions whose product exceeds MaxCells are refused up front.
type AllocationError struct {
	Width, Height uint32
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("document: cannot allocate %dx%d canvas (limit %d cells)", e.Width, e.Height, MaxCells)
}

// OutOfBoundsError is returned by checked pixel access.
type OutOfBoundsError struct {
	X, Y          int
	Width, Height uint32
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("document: pixel (%d,%d) outside %dx%d canvas", e.X, e.Y, e.Width, e.Height)
}

// IsOutOfBounds reports whether err is an *OutOfBoundsError.
func IsOutOfBounds(err error) bool {
	var oe *OutOfBoundsError
	return errors.As(err, &oe)
}
