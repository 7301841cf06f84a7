package artwork

import (
	"errors"
	"fmt"
)

// Fetch failures. Every error delivered in a Result wraps exactly one of these.
var (
	ErrTransport       = errors.New("artwork transport failed")
	ErrBadStatus       = errors.New("artwork server returned non-OK status")
	ErrEmptyBody       = errors.New("artwork response body is empty")
	ErrUndecodableBody = errors.New("artwork body is not a decodable image")

	// ErrTooLarge is always delivered wrapped together with ErrUndecodableBody:
	// the response was fine but the image is refused before decoding.
	ErrTooLarge = errors.New("artwork exceeds the size limit")
)

// StatusError carries the HTTP status of a rejected response.
// It matches ErrBadStatus under errors.Is.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d from %s", ErrBadStatus, e.StatusCode, e.URL)
}

// Is reports whether target is ErrBadStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrBadStatus
}
