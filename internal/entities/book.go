package entities

import "time"

type ReadingStatus string

const (
	StatusWantToRead ReadingStatus = "want_to_read"
	StatusReading    ReadingStatus = "reading"
	StatusFinished   ReadingStatus = "finished"
)

// Valid reports whether s is one of the known reading statuses.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusFinished:
		return true
	}
	return false
}

// Book is a title in the user's library. IDs are generated locally at
// creation time and never change; SourceProvider/SourceRecordID trace a book
// back to the search result it was added from and are empty for manually
// entered books.
type Book struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	Title          string        `gorm:"index;size:512" json:"title"`
	Author         string        `gorm:"index;size:256" json:"author"`
	Status         ReadingStatus `gorm:"index;size:20;default:'want_to_read'" json:"status"`
	CurrentPage    int           `json:"current_page"`
	TotalPages     int           `json:"total_pages"`
	CoverURL       string        `gorm:"size:2048" json:"cover_url,omitempty"`
	Publisher      string        `gorm:"size:256" json:"publisher,omitempty"`
	SourceProvider string        `gorm:"index:idx_books_source;size:32" json:"source_provider,omitempty"`
	SourceRecordID string        `gorm:"index:idx_books_source;size:64" json:"source_record_id,omitempty"`

	Sessions []ReadingSession `gorm:"foreignKey:BookID" json:"sessions,omitempty"`
	Quotes   []Quote          `gorm:"foreignKey:BookID" json:"quotes,omitempty"`
	Notes    []Note           `gorm:"foreignKey:BookID" json:"notes,omitempty"`

	// FinishedAt is set when the book transitions to finished and cleared
	// when a re-read starts. Monthly statistics depend on it.
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ReadingSession is one sitting of reading against a book. Sessions never
// outlive their book; deleting the book deletes them.
type ReadingSession struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	BookID          string    `gorm:"index;size:36" json:"book_id"`
	DurationMinutes int       `json:"duration_minutes"`
	OccurredAt      time.Time `gorm:"index" json:"occurred_at"`
	CreatedAt       time.Time `json:"created_at"`
}

type Quote struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	BookID    string    `gorm:"index;size:36" json:"book_id"`
	Text      string    `gorm:"type:text" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Note struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	BookID    string    `gorm:"index;size:36" json:"book_id"`
	Text      string    `gorm:"type:text" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (Book) TableName() string {
	return "books"
}

func (ReadingSession) TableName() string {
	return "reading_sessions"
}

func (Quote) TableName() string {
	return "quotes"
}

func (Note) TableName() string {
	return "notes"
}
