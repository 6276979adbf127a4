package pages

import "errors"

var (
	ErrBusy        = errors.New("action already in progress")
	ErrLoading     = errors.New("a fetch is already in flight")
	ErrNoData      = errors.New("nothing loaded yet")
	ErrNoPrevPage  = errors.New("already on the first page")
	ErrNoNextPage  = errors.New("already on the last page")
	ErrPageRange   = errors.New("page out of range")
	ErrEmptyInput  = errors.New("nothing to submit")
	ErrAWSDisabled = errors.New("AWS integration is disabled")
	ErrUnknownUser = errors.New("no such user")
	ErrNotMounted  = errors.New("page is not mounted")
	errAborted     = errors.New("fetch aborted")
)
