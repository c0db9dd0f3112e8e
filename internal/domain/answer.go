package domain

import "time"

// AnswerSource identifies which generation strategy produced an answer.
type AnswerSource string

const (
	// SourceGrounded means the answer was generated from retrieved leaflet
	// passages.
	SourceGrounded AnswerSource = "grounded"

	// SourceFallback means retrieval confidence was insufficient and the
	// answer came from the model's general knowledge.
	SourceFallback AnswerSource = "fallback"

	// SourceBlocked means the topic guard rejected the question before any
	// retrieval or generation.
	SourceBlocked AnswerSource = "blocked"
)

// NotFoundSentinel is the exact answer value the generation templates demand
// when nothing relevant is available.
const NotFoundSentinel = "NOT_FOUND"

// AnswerResponse is the immutable result of one medication question.
type AnswerResponse struct {
	Query      string
	Answer     string
	Confidence float64
	Source     AnswerSource
	Elapsed    time.Duration
}
