package models

import (
	"time"
)

// Difficulty is the level a question or quiz is pitched at
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	// DifficultyMixed is only ever derived for a quiz, never set on a question
	DifficultyMixed Difficulty = "mixed"
)

// Levels lists the question difficulties in tie-break order
var Levels = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

// Valid reports whether d is one of the three question levels
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// FocusMode selects which template family context-aware generation uses
type FocusMode string

const (
	FocusVocab         FocusMode = "vocab"
	FocusGrammar       FocusMode = "grammar"
	FocusComprehension FocusMode = "comprehension"
)

// Question represents a single multiple-choice assessment item
type Question struct {
	ID            string     `json:"id"`
	Text          string     `json:"text"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correctAnswer"`
	Explanation   string     `json:"explanation"`
	Tags          []string   `json:"tags"`
	Difficulty    Difficulty `json:"difficulty,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// HasCorrectAnswer reports whether CorrectAnswer is one of Options.
// Questions failing this are shown without a highlighted answer.
func (q Question) HasCorrectAnswer() bool {
	for _, o := range q.Options {
		if o == q.CorrectAnswer {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so the caller can own it
func (q Question) Clone() Question {
	c := q
	c.Options = append([]string(nil), q.Options...)
	c.Tags = append([]string(nil), q.Tags...)
	return c
}

// QuizMetadata holds creation and usage information for a quiz
type QuizMetadata struct {
	CreatedAt  time.Time  `json:"createdAt"`
	LastUsed   *time.Time `json:"lastUsed,omitempty"`
	AvgScore   *float64   `json:"avgScore,omitempty"`
	Difficulty Difficulty `json:"difficulty"`
	Tags       []string   `json:"tags"`
}

// Quiz is a named, ordered collection of questions
type Quiz struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Questions   []Question   `json:"questions"`
	Metadata    QuizMetadata `json:"metadata"`
	CoverColor  string       `json:"coverColor"`
}

// AIResponse wraps produced content the way an AI service answer would arrive
type AIResponse[T any] struct {
	Data             T         `json:"data"`
	Confidence       float64   `json:"confidence"`
	SuggestedActions []string  `json:"suggestedActions,omitempty"`
	GeneratedAt      time.Time `json:"generatedAt"`
}

// Class is a scheduled class as returned by the class-listing API
type Class struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Level     string   `json:"level"`
	Teacher   string   `json:"teacher"`
	Days      []string `json:"days"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Capacity  int      `json:"capacity"`
	Enrolled  int      `json:"enrolled"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
