package selection

import "errors"

var (
	// ErrCancelled reports that the user dismissed the dialog or picked nothing.
	ErrCancelled = errors.New("selection cancelled")
	// ErrTransport reports that the dialog ended without ever answering.
	ErrTransport = errors.New("selection dialog closed without a reply")
)
