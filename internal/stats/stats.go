// Package stats records reading sessions and derives aggregate reading
// statistics. Aggregates are never persisted; they are recomputed from the
// book and session collections on every read.
package stats

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dayoung/bookdam/internal/entities"
)

// InvalidDurationError indicates a session duration of zero or less.
type InvalidDurationError struct {
	Minutes int
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid session duration: %d minutes", e.Minutes)
}

// Repository defines the persistence operations the tracker needs.
type Repository interface {
	GetBookByID(id string) (*entities.Book, error)
	CreateSession(session *entities.ReadingSession) error
	GetAllBooks() ([]entities.Book, error)
	GetAllSessions() ([]entities.ReadingSession, error)
	GetSessionsForBook(bookID string) ([]entities.ReadingSession, error)
}

// Tracker records reading sessions and computes statistics over them.
type Tracker struct {
	repo Repository
}

func NewTracker(repo Repository) *Tracker {
	return &Tracker{repo: repo}
}

// RecordSession stores one sitting of reading against a book. The book must
// exist and the duration must be positive; nothing is written otherwise.
func (t *Tracker) RecordSession(bookID string, durationMinutes int, occurredAt time.Time) (*entities.ReadingSession, error) {
	if durationMinutes <= 0 {
		return nil, &InvalidDurationError{Minutes: durationMinutes}
	}
	if _, err := t.repo.GetBookByID(bookID); err != nil {
		return nil, err
	}

	session := &entities.ReadingSession{
		ID:              uuid.NewString(),
		BookID:          bookID,
		DurationMinutes: durationMinutes,
		OccurredAt:      occurredAt,
	}
	if err := t.repo.CreateSession(session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// SessionsForBook lists a book's recorded sessions in the order they
// occurred. The book must exist.
func (t *Tracker) SessionsForBook(bookID string) ([]entities.ReadingSession, error) {
	if _, err := t.repo.GetBookByID(bookID); err != nil {
		return nil, err
	}
	return t.repo.GetSessionsForBook(bookID)
}

// Stats are the derived reading aggregates. Monthly figures cover the
// calendar month of the reference date the stats were computed for.
type Stats struct {
	TotalBooksFinished   int `json:"total_books_finished"`
	TotalMinutes         int `json:"total_minutes"`
	MonthlyBooksFinished int `json:"monthly_books_finished"`
	MonthlyMinutes       int `json:"monthly_minutes"`
	CurrentStreakDays    int `json:"current_streak_days"`
}

// Stats loads the current collections and computes aggregates as of ref.
func (t *Tracker) Stats(ref time.Time) (Stats, error) {
	books, err := t.repo.GetAllBooks()
	if err != nil {
		return Stats{}, fmt.Errorf("load books: %w", err)
	}
	sessions, err := t.repo.GetAllSessions()
	if err != nil {
		return Stats{}, fmt.Errorf("load sessions: %w", err)
	}
	return Compute(books, sessions, ref), nil
}

// Compute folds the book and session collections into aggregates. It is a
// pure function of its inputs.
//
// The streak counts consecutive calendar days with at least one session,
// ending at ref's day: a ref day without a session means the streak is
// already broken and counts as zero, regardless of earlier activity.
func Compute(books []entities.Book, sessions []entities.ReadingSession, ref time.Time) Stats {
	var s Stats

	refYear, refMonth, _ := ref.Date()

	for _, b := range books {
		if b.Status != entities.StatusFinished {
			continue
		}
		s.TotalBooksFinished++
		if b.FinishedAt != nil {
			y, m, _ := b.FinishedAt.Date()
			if y == refYear && m == refMonth {
				s.MonthlyBooksFinished++
			}
		}
	}

	days := make(map[string]bool, len(sessions))
	for _, sess := range sessions {
		s.TotalMinutes += sess.DurationMinutes
		y, m, _ := sess.OccurredAt.Date()
		if y == refYear && m == refMonth {
			s.MonthlyMinutes += sess.DurationMinutes
		}
		days[dayKey(sess.OccurredAt)] = true
	}

	for day := ref; days[dayKey(day)]; day = day.AddDate(0, 0, -1) {
		s.CurrentStreakDays++
	}

	return s
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
