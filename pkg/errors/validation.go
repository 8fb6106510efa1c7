package errors

import (
	"regexp"
	"unicode"
)

// maxEntityTypeLen bounds entity type names.
const maxEntityTypeLen = 64

// entityTypeRegex matches snake_case entity type names such as "user" or
// "farm_plot".
var entityTypeRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateEntityType validates the entity type carried by an undo record.
//
// Rules:
//   - not empty
//   - at most 64 characters
//   - lowercase snake_case starting with a letter
func ValidateEntityType(name string) error {
	if name == "" {
		return New(ErrCodeInvalidRecord, "entity type cannot be empty")
	}
	if len(name) > maxEntityTypeLen {
		return New(ErrCodeInvalidRecord, "entity type too long (max %d characters)", maxEntityTypeLen)
	}
	if !entityTypeRegex.MatchString(name) {
		return New(ErrCodeInvalidRecord, "invalid entity type: %q", name)
	}
	return nil
}

// ValidateEntityID rejects non-positive identifiers.
func ValidateEntityID(id int64) error {
	if id <= 0 {
		return New(ErrCodeInvalidRecord, "entity id must be positive, got %d", id)
	}
	return nil
}

// ValidateQuery validates a search query. An empty query is not an error for
// the search itself (it yields no results), so callers use this only where
// they want to reject it up front.
func ValidateQuery(q string) error {
	if q == "" {
		return New(ErrCodeInvalidQuery, "query cannot be empty")
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidQuery, "query contains control characters")
		}
	}
	return nil
}

// ValidateFieldName rejects empty or control-character snapshot field names.
func ValidateFieldName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidRecord, "snapshot field name cannot be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRecord, "snapshot field %q contains control characters", name)
		}
	}
	return nil
}
