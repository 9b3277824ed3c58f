package store

import "errors"

var (
	// ErrNotFound is returned by lookups for ids that don't exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID is returned when a required id is empty.
	ErrInvalidID = errors.New("invalid id")

	// ErrTitleRequired is returned when a ticket or task is created
	// without a title.
	ErrTitleRequired = errors.New("title is required")

	// ErrInvalidStatus is returned for status values outside the
	// entity's vocabulary.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidPriority is returned for priority values outside the
	// ticket vocabulary.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidParent is returned when an observation names an empty
	// parent id or an unknown parent kind.
	ErrInvalidParent = errors.New("invalid parent reference")

	// ErrNegativeHours is returned when a time entry carries hours < 0.
	ErrNegativeHours = errors.New("hours must be non-negative")

	// ErrInvalidDate is returned when a time entry date is not a
	// YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

	// ErrInvalidSnapshot is returned when an import document is missing
	// one of the four required collections.
	ErrInvalidSnapshot = errors.New("invalid snapshot document")
)
