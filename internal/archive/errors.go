package archive

import "errors"

// Common archive API errors.
var (
	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when authentication fails.
	ErrUnauthorized = errors.New("unauthorized: check the API token")
	// ErrForbidden is returned when authorization fails.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned when a resource already exists.
	ErrConflict = errors.New("conflict: resource already exists")
	// ErrContractViolation is returned when a successful response lacks an
	// element the API promises, such as the Location of a created image.
	ErrContractViolation = errors.New("archive API contract violation")
)

// NetworkError wraps a transport failure or an unexpected status code.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is, or wraps, a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
