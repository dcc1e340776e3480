package errors

import "errors"

var (
	ErrTabNotFound      = errors.New("tab not found")
	ErrDuplicateItem    = errors.New("item already in tab")
	ErrNotFound         = errors.New("not found")
	ErrNoEditInProgress = errors.New("no edit in progress")
	ErrNoSelection      = errors.New("no item selected")
	ErrShortAllocation  = errors.New("allocation does not cover shortage")
	ErrOverAllocation   = errors.New("allocation exceeds warehouse availability")
	ErrItemNotTracked   = errors.New("item not tracked in stock system")
)
