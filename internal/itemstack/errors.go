package itemstack

import (
	"errors"
	"fmt"
)

// ErrMetadataParse matches every *ParseError via errors.Is.
var ErrMetadataParse = errors.New("itemstack: metadata parse error")

// ParseError reports that a reserved key holds a value that does not parse
// as its structured type.
//
// The mapping keeps the value that was written; only the derived view for
// Key is affected (it is reset to absent).
type ParseError struct {
	// Key is the reserved key whose value failed to parse.
	Key string

	// Err is the underlying decode error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("itemstack: parse %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMetadataParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrMetadataParse
}

// IsParseError returns true if err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// ParseErrors returns the *ParseError values in err, including errors
// combined with errors.Join.
func ParseErrors(err error) []*ParseError {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*ParseError
		for _, e := range joined.Unwrap() {
			out = append(out, ParseErrors(e)...)
		}
		return out
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return []*ParseError{pe}
	}
	return nil
}

// ParseErrorKeys lists the reserved keys named by the parse errors in err.
func ParseErrorKeys(err error) []string {
	var keys []string
	for _, pe := range ParseErrors(err) {
		keys = append(keys, pe.Key)
	}
	return keys
}
