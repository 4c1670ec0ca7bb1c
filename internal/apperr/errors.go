package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrReserved = errors.New("reserved")
	ErrStorage  = errors.New("storage error")
)
