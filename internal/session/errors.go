package session

import "errors"

var (
	// ErrInvariantViolation is returned when a caller asks for something
	// the presentation layer should have made impossible, such as
	// embedding an image that is not attached.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrNoMorePages is returned when the page tracker has no page left.
	ErrNoMorePages = errors.New("no more archive pages")
	// ErrUploadFailed wraps transport failures of an image upload.
	ErrUploadFailed = errors.New("upload failed")
	// ErrNotAnImage is returned when a picked file cannot be decoded.
	ErrNotAnImage = errors.New("not a decodable image")
)
