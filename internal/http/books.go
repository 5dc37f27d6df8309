package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dayoung/bookdam/internal/entities"
	"github.com/dayoung/bookdam/internal/search"
)

// BookStore defines the library operations the controller delegates to.
type BookStore interface {
	AddFromSearch(rec search.Record) (*entities.Book, error)
	AddManual(title, author string, totalPages int) (*entities.Book, error)
	Get(id string) (*entities.Book, error)
	List(status entities.ReadingStatus) ([]entities.Book, error)
	UpdateProgress(id string, newPage int) (*entities.Book, error)
	SetStatus(id string, status entities.ReadingStatus) (*entities.Book, error)
	Remove(id string) error
	AddQuote(bookID, text string) (*entities.Quote, error)
	AddNote(bookID, text string) (*entities.Note, error)
}

// SessionRecorder records and lists reading sessions against a book.
type SessionRecorder interface {
	RecordSession(bookID string, durationMinutes int, occurredAt time.Time) (*entities.ReadingSession, error)
	SessionsForBook(bookID string) ([]entities.ReadingSession, error)
}

type BooksController struct {
	store   BookStore
	tracker SessionRecorder
}

func NewBooksController(store BookStore, tracker SessionRecorder) *BooksController {
	return &BooksController{store: store, tracker: tracker}
}

// ListBooks returns the library, optionally filtered by status.
// GET /api/books?status=reading
func (bc *BooksController) ListBooks(c *gin.Context) {
	status := entities.ReadingStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		respondBadRequest(c, "unknown status: "+string(status))
		return
	}

	books, err := bc.store.List(status)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetBook returns one book with its quotes, notes and sessions.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	book, err := bc.store.Get(c.Param("id"))
	if err != nil {
		respondLibraryError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// AddFromSearch adds a book the user picked from search results.
// POST /api/books/external
func (bc *BooksController) AddFromSearch(c *gin.Context) {
	var rec search.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		respondBadRequest(c, "invalid search record")
		return
	}
	if rec.Title == "" {
		respondBadRequest(c, "title is required")
		return
	}

	book, err := bc.store.AddFromSearch(rec)
	if err != nil {
		respondLibraryError(c, err, "add book from search")
		return
	}
	c.JSON(http.StatusCreated, book)
}

// AddManual adds a hand-entered book.
// POST /api/books
func (bc *BooksController) AddManual(c *gin.Context) {
	var req struct {
		Title      string `json:"title" binding:"required"`
		Author     string `json:"author"`
		TotalPages int    `json:"total_pages"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title is required")
		return
	}

	book, err := bc.store.AddManual(req.Title, req.Author, req.TotalPages)
	if err != nil {
		respondLibraryError(c, err, "add book")
		return
	}
	c.JSON(http.StatusCreated, book)
}

// UpdateProgress moves the bookmark of a book.
// PATCH /api/books/:id/progress
func (bc *BooksController) UpdateProgress(c *gin.Context) {
	var req struct {
		CurrentPage *int `json:"current_page" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "current_page is required")
		return
	}

	book, err := bc.store.UpdateProgress(c.Param("id"), *req.CurrentPage)
	if err != nil {
		respondLibraryError(c, err, "update progress")
		return
	}
	c.JSON(http.StatusOK, book)
}

// SetStatus applies an explicit reading-status change.
// PATCH /api/books/:id/status
func (bc *BooksController) SetStatus(c *gin.Context) {
	var req struct {
		Status entities.ReadingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "status is required")
		return
	}

	book, err := bc.store.SetStatus(c.Param("id"), req.Status)
	if err != nil {
		respondLibraryError(c, err, "set status")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a book and its sessions, quotes and notes.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	if err := bc.store.Remove(c.Param("id")); err != nil {
		respondLibraryError(c, err, "delete book")
		return
	}
	c.Status(http.StatusNoContent)
}

// AddQuote appends a quote to a book.
// POST /api/books/:id/quotes
func (bc *BooksController) AddQuote(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "text is required")
		return
	}

	quote, err := bc.store.AddQuote(c.Param("id"), req.Text)
	if err != nil {
		respondLibraryError(c, err, "add quote")
		return
	}
	c.JSON(http.StatusCreated, quote)
}

// AddNote appends a note to a book.
// POST /api/books/:id/notes
func (bc *BooksController) AddNote(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "text is required")
		return
	}

	note, err := bc.store.AddNote(c.Param("id"), req.Text)
	if err != nil {
		respondLibraryError(c, err, "add note")
		return
	}
	c.JSON(http.StatusCreated, note)
}

// RecordSession records one sitting of reading against a book.
// POST /api/books/:id/sessions
func (bc *BooksController) RecordSession(c *gin.Context) {
	var req struct {
		DurationMinutes *int       `json:"duration_minutes" binding:"required"`
		OccurredAt      *time.Time `json:"occurred_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "duration_minutes is required")
		return
	}

	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	session, err := bc.tracker.RecordSession(c.Param("id"), *req.DurationMinutes, occurredAt)
	if err != nil {
		respondLibraryError(c, err, "record session")
		return
	}
	c.JSON(http.StatusCreated, session)
}

// ListSessions returns a book's recorded sessions in occurrence order.
// GET /api/books/:id/sessions
func (bc *BooksController) ListSessions(c *gin.Context) {
	sessions, err := bc.tracker.SessionsForBook(c.Param("id"))
	if err != nil {
		respondLibraryError(c, err, "list sessions")
		return
	}
	c.JSON(http.StatusOK, sessions)
}
