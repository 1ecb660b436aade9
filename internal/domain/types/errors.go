package types

import "errors"

var (
	ErrUnauthenticated  = errors.New("not logged in: please sign in again")
	ErrNotFound         = errors.New("requested item not found")
	ErrInvalidTimeframe = errors.New("timeframe must be one of week, month, year")
	ErrInvalidStatus    = errors.New("invalid status value")
	ErrEmptyID          = errors.New("id must not be empty")
	ErrNoSelection      = errors.New("no entity selected")
	ErrEmptyMessage     = errors.New("message must not be empty")
)
