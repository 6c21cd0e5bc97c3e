package domain

import "errors"

// ErrNotFound is returned when a view or business ID is not known.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails validation (e.g. an unknown
// badge variant, or selecting a business whose position does not parse).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrViewClosed is returned by operations on a map view that has already
// been torn down. Handlers should map this to HTTP 410 Gone.
var ErrViewClosed = errors.New("view closed")
