package collection

import "errors"

var (
	// ErrCursorNotOnTombstone is returned by Cursor.InsertDocument when the
	// cursor's current slot is not a tombstone, and by RemoveCurrentDocument
	// and ReadCurrentDocument when the slot is a tombstone (holds no live
	// document).
	ErrCursorNotOnTombstone = errors.New("collection: cursor slot is not a tombstone (insert) or not a live document (remove, read)")

	// ErrDocumentTooLargeForGap is returned when InsertDocument is asked to
	// reuse a tombstoned gap too small to hold the new document.
	ErrDocumentTooLargeForGap = errors.New("collection: document does not fit in the available gap")

	// ErrEndOfStream is returned by cursor advancement once the pager's
	// logical tail has been reached.
	ErrEndOfStream = errors.New("collection: end of document stream")
)
