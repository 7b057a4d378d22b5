package models

import "errors"

// Validation errors raised while deserializing client input. They are
// wrapped with field detail and mapped to 400 responses by the HTTP layer.
var (
	// ErrNoData means the request body was not a JSON object at all.
	ErrNoData = errors.New("invalid product: body of request contained bad or no data")
	// ErrMissingField means a required key was absent from the body.
	ErrMissingField = errors.New("invalid product: missing field")
	// ErrInvalidType means a field carried the wrong primitive type.
	ErrInvalidType = errors.New("invalid type")
	// ErrInvalidAttribute means the category did not name a known member.
	ErrInvalidAttribute = errors.New("invalid attribute")
)

// ErrEmptyID is returned when an update is attempted on a product that
// was never assigned an id by the store.
var ErrEmptyID = errors.New("update called with empty id field")

// ErrProductNotFound is returned when a product lookup misses.
var ErrProductNotFound = errors.New("product not found")

// IsValidationError reports whether err belongs to the deserialization
// error taxonomy.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoData) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrInvalidAttribute)
}
