package model

import "time"

// Attempt is one recorded grading attempt. Attempts are history only; the
// grading verdict itself is computed synchronously and never read back from
// this table.
type Attempt struct {
	ID          string        `json:"id"`
	UserID      *string       `json:"user_id,omitempty"` // nil for anonymous attempts
	ProblemID   string        `json:"problem_id"`
	Language    string        `json:"language"`
	Status      VerdictStatus `json:"status"`
	Kind        FailKind      `json:"kind,omitempty"`
	CaseIndex   *int          `json:"case_index,omitempty"`
	Message     string        `json:"message"`
	SubmittedAt time.Time     `json:"submitted_at"`
}
