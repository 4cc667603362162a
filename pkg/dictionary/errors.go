package dictionary

import "errors"

var (
	ErrUnknownFormat = errors.New("unknown dictionary format")
	ErrDuplicateKey  = errors.New("duplicate key pattern")
	ErrInvalidTable  = errors.New("invalid table")
)
