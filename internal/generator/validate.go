package generator

import (
	"errors"
	"fmt"
	"strings"

	"linguaquiz/internal/models"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is returned when a generation request fails validation
var ErrInvalidInput = errors.New("invalid input")

var validate = validator.New()

// QuizInput is a context-aware generation request
type QuizInput struct {
	Topic         string            `json:"topic" validate:"max=100"`
	SourceText    string            `json:"sourceText"`
	Mode          models.FocusMode  `json:"mode" validate:"omitempty,oneof=vocab grammar comprehension"`
	Difficulty    models.Difficulty `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	QuestionCount *int              `json:"questionCount" validate:"omitempty,min=1,max=200"`
}

// ValidationResult reports every problem found with a request
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidationError carries the individual messages behind ErrInvalidInput
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(e.Messages, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ValidateQuizInput checks a request without side effects
func ValidateQuizInput(in QuizInput) ValidationResult {
	var msgs []string
	if strings.TrimSpace(in.Topic) == "" && strings.TrimSpace(in.SourceText) == "" {
		msgs = append(msgs, "either a topic or source text is required")
	}

	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			msgs = append(msgs, err.Error())
		}
		for _, fe := range fieldErrs {
			msgs = append(msgs, describe(fe))
		}
	}

	return ValidationResult{Valid: len(msgs) == 0, Errors: msgs}
}

// Validate returns a *ValidationError wrapping ErrInvalidInput when in is invalid
func (in QuizInput) Validate() error {
	res := ValidateQuizInput(in)
	if res.Valid {
		return nil
	}
	return &ValidationError{Messages: res.Errors}
}

func describe(fe validator.FieldError) string {
	switch fe.Field() {
	case "Topic":
		return fmt.Sprintf("topic must be %d characters or fewer", MaxTopicLength)
	case "QuestionCount":
		return fmt.Sprintf("questionCount must be between 1 and %d", MaxQuestionCount)
	case "Mode":
		return "mode must be one of vocab, grammar, comprehension"
	case "Difficulty":
		return "difficulty must be one of beginner, intermediate, advanced"
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
