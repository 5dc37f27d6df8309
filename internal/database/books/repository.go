// Package books provides database operations for the book library: books,
// reading sessions, quotes and notes.
//
// This package implements the repository interfaces the library and stats
// services declare for themselves:
//
//	var _ library.Repository = (*Repository)(nil)
//	var _ stats.Repository = (*Repository)(nil)
package books

import (
	"errors"

	"gorm.io/gorm"

	"github.com/dayoung/bookdam/internal/entities"
	"github.com/dayoung/bookdam/internal/library"
)

// Repository handles all library database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetBookByID retrieves a book with its quotes, notes and sessions.
func (r *Repository) GetBookByID(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.
		Preload("Quotes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Sessions", func(db *gorm.DB) *gorm.DB { return db.Order("occurred_at ASC") }).
		First(&book, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, library.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetBookBySourceRecord retrieves the book created from a given search
// record, if any. Used for the duplicate check when adding from search.
func (r *Repository) GetBookBySourceRecord(provider, recordID string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.
		Where("source_provider = ? AND source_record_id = ?", provider, recordID).
		First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, library.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAllBooks retrieves every book in insertion order.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("created_at ASC, id ASC").Find(&books).Error
	return books, err
}

// GetBooksByStatus retrieves books with the given status in insertion order.
func (r *Repository) GetBooksByStatus(status entities.ReadingStatus) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("status = ?", status).Order("created_at ASC, id ASC").Find(&books).Error
	return books, err
}

// CreateBook inserts a new book.
func (r *Repository) CreateBook(book *entities.Book) error {
	return r.db.Create(book).Error
}

// SaveBook persists all fields of an existing book.
func (r *Repository) SaveBook(book *entities.Book) error {
	return r.db.Omit("Quotes", "Notes", "Sessions").Save(book).Error
}

// DeleteBook removes a book and everything it owns in one transaction.
func (r *Repository) DeleteBook(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&entities.Book{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return library.ErrBookNotFound
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.ReadingSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Quote{}).Error; err != nil {
			return err
		}
		return tx.Where("book_id = ?", id).Delete(&entities.Note{}).Error
	})
}

// CreateQuote appends a quote to a book.
func (r *Repository) CreateQuote(quote *entities.Quote) error {
	return r.db.Create(quote).Error
}

// CreateNote appends a note to a book.
func (r *Repository) CreateNote(note *entities.Note) error {
	return r.db.Create(note).Error
}

// CreateSession records a reading session.
func (r *Repository) CreateSession(session *entities.ReadingSession) error {
	return r.db.Create(session).Error
}

// GetAllSessions retrieves every reading session ordered by occurrence.
func (r *Repository) GetAllSessions() ([]entities.ReadingSession, error) {
	var sessions []entities.ReadingSession
	err := r.db.Order("occurred_at ASC").Find(&sessions).Error
	return sessions, err
}

// GetSessionsForBook retrieves the sessions of one book ordered by occurrence.
func (r *Repository) GetSessionsForBook(bookID string) ([]entities.ReadingSession, error) {
	var sessions []entities.ReadingSession
	err := r.db.Where("book_id = ?", bookID).Order("occurred_at ASC").Find(&sessions).Error
	return sessions, err
}
