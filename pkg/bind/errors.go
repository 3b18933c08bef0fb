package bind

import "errors"

var (
	errNotStructPtr = errors.New("bind: destination must be a pointer to a struct")
	errNotNumber    = errors.New("not a number")
	errUnsupported  = errors.New("unsupported field type")
)
