package tableview

import "errors"

var (
	// ErrInvalidBinding is returned when a model to bind
	// is neither a *Collection nor a *Record.
	ErrInvalidBinding = errors.New("expects a Collection or a Record")

	// ErrNotImplemented is returned when a required extension point
	// (HeaderProvider or RowProjector) was not provided.
	ErrNotImplemented = errors.New("not implemented")

	// ErrClosed is returned by the handlers of a closed TableView.
	ErrClosed = errors.New("table view closed")

	// ErrMissingIDColumn is returned when an ID column
	// was requested that is not part of the header row.
	ErrMissingIDColumn = errors.New("missing ID column")
)
