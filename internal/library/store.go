// Package library owns the user's book collection: creation from search
// records or manual entry, page progress, the reading-status lifecycle, and
// quotes and notes. It is the only writer of persisted book state.
package library

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dayoung/bookdam/internal/entities"
	"github.com/dayoung/bookdam/internal/search"
)

// Repository defines the persistence operations the store needs. Lookups by
// id return ErrBookNotFound for unknown books.
type Repository interface {
	GetBookByID(id string) (*entities.Book, error)
	GetBookBySourceRecord(provider, recordID string) (*entities.Book, error)
	GetAllBooks() ([]entities.Book, error)
	GetBooksByStatus(status entities.ReadingStatus) ([]entities.Book, error)
	CreateBook(book *entities.Book) error
	SaveBook(book *entities.Book) error
	DeleteBook(id string) error
	CreateQuote(quote *entities.Quote) error
	CreateNote(note *entities.Note) error
}

// Store is the book library. Mutations of the same book are serialized
// through a per-id lock so a concurrent progress update and status change
// cannot interleave into an inconsistent page/status pair; books are
// independent, so there is no cross-book locking.
type Store struct {
	repo Repository

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time
}

func NewStore(repo Repository) *Store {
	return &Store{
		repo:  repo,
		locks: make(map[string]*sync.Mutex),
		now:   time.Now,
	}
}

func (s *Store) lockBook(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// AddFromSearch creates a book from a search record. Adding the same record
// twice fails with DuplicateBookError; the new book starts as want_to_read
// at page zero and keeps a trace back to the record it came from.
func (s *Store) AddFromSearch(rec search.Record) (*entities.Book, error) {
	// Two concurrent adds of the same record must not both pass the
	// duplicate check. Record keys are prefixed so they cannot collide
	// with book ids.
	unlock := s.lockBook("record:" + rec.Source + "/" + rec.ID)
	defer unlock()

	if _, err := s.repo.GetBookBySourceRecord(rec.Source, rec.ID); err == nil {
		return nil, &DuplicateBookError{Provider: rec.Source, RecordID: rec.ID}
	} else if !errors.Is(err, ErrBookNotFound) {
		return nil, fmt.Errorf("check for existing book: %w", err)
	}

	book := &entities.Book{
		ID:             uuid.NewString(),
		Title:          rec.Title,
		Author:         rec.Author,
		Status:         entities.StatusWantToRead,
		TotalPages:     rec.PageCount,
		CoverURL:       rec.Thumbnail,
		Publisher:      rec.Publisher,
		SourceProvider: rec.Source,
		SourceRecordID: rec.ID,
	}
	if err := s.repo.CreateBook(book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

// AddManual creates a book the user typed in by hand. Manual entries carry
// no source trace and are deliberately not checked against existing books:
// the user may own a second copy of something the catalogs also know.
func (s *Store) AddManual(title, author string, totalPages int) (*entities.Book, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if totalPages < 0 {
		return nil, fmt.Errorf("total pages must not be negative")
	}

	book := &entities.Book{
		ID:         uuid.NewString(),
		Title:      title,
		Author:     author,
		Status:     entities.StatusWantToRead,
		TotalPages: totalPages,
	}
	if err := s.repo.CreateBook(book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

// Get retrieves one book with its quotes, notes and sessions.
func (s *Store) Get(id string) (*entities.Book, error) {
	return s.repo.GetBookByID(id)
}

// List returns books in insertion order, optionally filtered by status.
// An empty status means no filter.
func (s *Store) List(status entities.ReadingStatus) ([]entities.Book, error) {
	if status == "" {
		return s.repo.GetAllBooks()
	}
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	return s.repo.GetBooksByStatus(status)
}

// UpdateProgress moves the bookmark. The first page of progress implicitly
// starts reading a want_to_read book, and reaching the last page finishes
// it. On any error the book is left untouched.
func (s *Store) UpdateProgress(id string, newPage int) (*entities.Book, error) {
	unlock := s.lockBook(id)
	defer unlock()

	book, err := s.repo.GetBookByID(id)
	if err != nil {
		return nil, err
	}

	if newPage < 0 || (book.TotalPages > 0 && newPage > book.TotalPages) {
		return nil, &InvalidProgressError{Page: newPage, TotalPages: book.TotalPages}
	}

	book.CurrentPage = newPage
	if newPage > 0 && book.Status == entities.StatusWantToRead {
		book.Status = entities.StatusReading
	}
	if book.TotalPages > 0 && newPage == book.TotalPages && book.Status != entities.StatusFinished {
		book.Status = entities.StatusFinished
		now := s.now()
		book.FinishedAt = &now
	}

	if err := s.repo.SaveBook(book); err != nil {
		return nil, fmt.Errorf("save book: %w", err)
	}
	return book, nil
}

// SetStatus applies an explicit status change, validated against the
// reading lifecycle. Setting a book to its current status is a no-op.
func (s *Store) SetStatus(id string, status entities.ReadingStatus) (*entities.Book, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q", status)
	}

	unlock := s.lockBook(id)
	defer unlock()

	book, err := s.repo.GetBookByID(id)
	if err != nil {
		return nil, err
	}

	if book.Status == status {
		return book, nil
	}
	if !validTransition(book.Status, status) {
		return nil, &InvalidTransitionError{From: book.Status, To: status}
	}

	book.Status = status
	switch status {
	case entities.StatusFinished:
		now := s.now()
		book.FinishedAt = &now
	case entities.StatusReading:
		// Re-reading a finished book clears the finish date but keeps the
		// accumulated sessions.
		book.FinishedAt = nil
	}

	if err := s.repo.SaveBook(book); err != nil {
		return nil, fmt.Errorf("save book: %w", err)
	}
	return book, nil
}

// validTransition encodes the reading lifecycle: a book starts as
// want_to_read, must pass through reading before it can finish, and a
// finished book can be re-opened for a re-read.
func validTransition(from, to entities.ReadingStatus) bool {
	switch from {
	case entities.StatusWantToRead:
		return to == entities.StatusReading
	case entities.StatusReading:
		return to == entities.StatusFinished
	case entities.StatusFinished:
		return to == entities.StatusReading
	}
	return false
}

// Remove deletes a book and cascades to its sessions, quotes and notes.
func (s *Store) Remove(id string) error {
	unlock := s.lockBook(id)
	defer unlock()

	if err := s.repo.DeleteBook(id); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
	return nil
}

// AddQuote appends a free-text quote to a book.
func (s *Store) AddQuote(bookID, text string) (*entities.Quote, error) {
	if text == "" {
		return nil, fmt.Errorf("quote text is required")
	}
	if _, err := s.repo.GetBookByID(bookID); err != nil {
		return nil, err
	}

	quote := &entities.Quote{
		ID:     uuid.NewString(),
		BookID: bookID,
		Text:   text,
	}
	if err := s.repo.CreateQuote(quote); err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}
	return quote, nil
}

// AddNote appends a free-text note to a book.
func (s *Store) AddNote(bookID, text string) (*entities.Note, error) {
	if text == "" {
		return nil, fmt.Errorf("note text is required")
	}
	if _, err := s.repo.GetBookByID(bookID); err != nil {
		return nil, err
	}

	note := &entities.Note{
		ID:     uuid.NewString(),
		BookID: bookID,
		Text:   text,
	}
	if err := s.repo.CreateNote(note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}
