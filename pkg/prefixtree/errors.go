package prefixtree

import "errors"

var (
	ErrMalformedPattern = errors.New("malformed pattern")
	ErrEmptyPattern     = errors.New("empty pattern")
)
