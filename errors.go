package semreg

import (
	"errors"
	"fmt"
)

// Parse failure sentinels. Codec errors are *ParseError values wrapping one
// of these, so callers can match the failure class with errors.Is.
var (
	ErrExpectedConst    = errors.New("expected one or more constant bytes")
	ErrExpectedZero     = errors.New("expected a zero byte")
	ErrExpectedInt      = errors.New("expected a fixed-width integer")
	ErrExpectedVlq      = errors.New("expected a variable-length quantity")
	ErrValueNotInRange  = errors.New("value not in expected range")
	ErrInconsistentData = errors.New("parts of data inconsistent with each other")
	ErrTrailingData     = errors.New("expected end of data, got more bytes")
)

// Store condition sentinels.
var (
	ErrValueNotFound  = errors.New("value not found")
	ErrWrongValueType = errors.New("value has unexpected type")
	ErrWatchClosed    = errors.New("watcher closed")
	ErrWatchOverflow  = errors.New("change events lost to a slow consumer")
)

// ParseError reports a failure to decode a byte sequence. Data is the whole
// buffer being parsed and Off the position the failure occurred at.
type ParseError struct {
	Data []byte
	Off  int
	Err  error
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Error() string {
	const maxPrefix, maxSuffix = 64, 32
	n := len(e.Data)
	if n <= maxPrefix+maxSuffix {
		return fmt.Sprintf("%v at index %d of (%d bytes) %x", e.Err, e.Off, n, e.Data)
	}
	return fmt.Sprintf("%v at index %d of (%d bytes) %x...%x", e.Err, e.Off, n, e.Data[:maxPrefix], e.Data[n-maxSuffix:])
}
