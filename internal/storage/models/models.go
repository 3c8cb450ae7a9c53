package models

import "time"

// UnansweredQuestion is one question the engine could not confidently answer.
// Records are keyed by id and timestamp, deliberately not deduplicated by
// content: operators want to see volume and recency, not distinct phrasings.
type UnansweredQuestion struct {
	ID           string    `json:"id"`
	Question     string    `json:"question"`
	UserContext  string    `json:"user_context,omitempty"`
	QuestionType string    `json:"question_type"`
	Complexity   string    `json:"complexity"`
	Confidence   float64   `json:"confidence"`
	Handled      bool      `json:"handled"`
	CreatedAt    time.Time `json:"created_at"`
}

// UnansweredFilter narrows a listing. Nil pointer fields mean "no constraint".
type UnansweredFilter struct {
	Handled       *bool
	MinConfidence *float64
	MaxConfidence *float64
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}
