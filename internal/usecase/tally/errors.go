package tally

import "errors"

var (
	// ErrLoadFailed indicates that a source's text could not be loaded.
	// TallyAll skips such sources.
	ErrLoadFailed = errors.New("load source failed")

	// ErrCountFailed indicates that counting a loaded text failed.
	ErrCountFailed = errors.New("count characters failed")

	// ErrStoreFailed indicates that a snapshot could not be persisted.
	ErrStoreFailed = errors.New("store snapshot failed")
)
