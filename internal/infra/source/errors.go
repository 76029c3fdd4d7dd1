package source

import "errors"

var (
	// ErrUnsupportedKind indicates a source kind the loader cannot handle.
	ErrUnsupportedKind = errors.New("unsupported source kind")

	// ErrTooLarge indicates that a file or response body exceeded the size limit.
	ErrTooLarge = errors.New("source exceeds size limit")

	// ErrNoContent indicates that no text could be extracted.
	ErrNoContent = errors.New("no text content found")

	// ErrTooManyRedirects indicates that a fetch followed too many redirects.
	ErrTooManyRedirects = errors.New("too many redirects")
)
