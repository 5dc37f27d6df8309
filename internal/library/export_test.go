package library

import "time"

var ValidTransition = validTransition

// SetClock overrides the store's clock in tests.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}
