package types

import "time"

// Submission is a stored resume payload together with its access token.
// RawJSON holds the exact bytes the client sent; it is re-parsed at render
// time rather than stored as a parsed struct.
type Submission struct {
	ID         int64     `json:"id"`
	RawJSON    []byte    `json:"-"`
	Token      string    `json:"-"`
	TemplateID string    `json:"template_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Age returns how long ago the submission was created relative to now.
func (s *Submission) Age(now time.Time) time.Duration {
	return now.Sub(s.CreatedAt)
}
