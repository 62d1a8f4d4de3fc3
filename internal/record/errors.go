package record

import "errors"

// ErrInvalidField is returned when a field registration is rejected.
var ErrInvalidField = errors.New("invalid field")
