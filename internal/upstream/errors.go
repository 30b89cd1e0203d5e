package upstream

import (
	"errors"
	"fmt"
)

// The fetch layer distinguishes three failure classes: transport errors
// (returned by net/http as-is, wrapped), non-2xx responses, and responses
// that fail to decode. Screens decide what to do with each; none of them
// are fatal to the console.

// ErrDecode wraps JSON decoding failures on otherwise successful responses.
var ErrDecode = errors.New("malformed response body")

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.Path, e.Code)
}

// IsStatus reports whether err is a non-2xx response error.
func IsStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
