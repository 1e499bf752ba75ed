package services

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when the acting user is not a member of the target
// shopping list and not a superuser. It deliberately carries no detail about
// the resource itself.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports rejected input with field-level detail. Handlers map
// it to a 400 response.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on field '%s': %s", e.Field, e.Message)
}
