package event

import "errors"

// ErrMalformed is returned when a header block cannot form a record.
var ErrMalformed = errors.New("malformed event")
