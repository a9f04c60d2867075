package service

import "errors"

// ErrInvalidArgument marks requests rejected before any write is attempted:
// empty line-item lists, non-positive quantities, non-positive term lengths.
var ErrInvalidArgument = errors.New("invalid argument")
