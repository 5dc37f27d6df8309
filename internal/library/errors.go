package library

import (
	"errors"
	"fmt"

	"github.com/dayoung/bookdam/internal/entities"
)

// ErrBookNotFound indicates the referenced book id does not exist.
var ErrBookNotFound = errors.New("book not found")

// DuplicateBookError indicates a book created from the same search record
// already exists in the library.
type DuplicateBookError struct {
	Provider string
	RecordID string
}

func (e *DuplicateBookError) Error() string {
	return fmt.Sprintf("book already in library (%s record %s)", e.Provider, e.RecordID)
}

// InvalidProgressError indicates a page number outside [0, TotalPages].
type InvalidProgressError struct {
	Page       int
	TotalPages int
}

func (e *InvalidProgressError) Error() string {
	return fmt.Sprintf("invalid page %d (total pages %d)", e.Page, e.TotalPages)
}

// InvalidTransitionError indicates a status change the reading lifecycle
// does not allow.
type InvalidTransitionError struct {
	From entities.ReadingStatus
	To   entities.ReadingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}
