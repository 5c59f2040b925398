package model

import "errors"

// Sentinel errors for the failure modes a user action can hit. Callers
// classify with errors.Is; every one of these is recoverable at the point
// of the triggering action.
var (
	// ErrValidation marks a rejected mutation (e.g. empty item name).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an operation on an id not present in the collection.
	ErrNotFound = errors.New("item not found")

	// ErrCorruptData marks a stored blob that exists but cannot be parsed.
	ErrCorruptData = errors.New("corrupt stored data")

	// ErrPersistence marks a failed flush. The in-memory collection remains
	// authoritative; the change may not survive a restart.
	ErrPersistence = errors.New("persistence failed")

	// ErrImportFormat marks a file that cannot be read as a spreadsheet.
	ErrImportFormat = errors.New("unreadable spreadsheet")

	// ErrEmptyCollection marks an export attempt with nothing to export.
	ErrEmptyCollection = errors.New("collection is empty")

	// ErrAnalysis marks a failed image-analysis call.
	ErrAnalysis = errors.New("image analysis failed")
)
