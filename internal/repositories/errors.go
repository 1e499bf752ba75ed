package repositories

import "errors"

// ErrNotFound is wrapped by every repository when a referenced record does not
// exist, so callers can distinguish missing records from storage failures.
var ErrNotFound = errors.New("not found")
