package generator

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"linguaquiz/internal/models"
	"linguaquiz/internal/random"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newSeeded(seed int64) *Generator {
	n := 0
	return New(Options{
		Source: random.New(seed),
		Now:    func() time.Time { return fixedNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("q-%d", n)
		},
	})
}

func intPtr(n int) *int { return &n }

func assertWellFormed(t *testing.T, qs []models.Question) {
	t.Helper()
	for _, q := range qs {
		assert.NotEmpty(t, q.ID)
		assert.NotEmpty(t, q.Text)
		assert.GreaterOrEqual(t, len(q.Options), 2, q.Text)
		assert.True(t, q.HasCorrectAnswer(), "correct answer missing from options: %q", q.Text)
		matches := 0
		for _, o := range q.Options {
			if o == q.CorrectAnswer {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "exactly one option must equal the answer: %q", q.Text)
	}
}

func TestFromTopicBank(t *testing.T) {
	g := newSeeded(1)

	t.Run("ExactKey", func(t *testing.T) {
		qs, ok := g.FromTopicBank("  Idioms ", 3)
		require.True(t, ok)
		assert.Len(t, qs, 3)
		assertWellFormed(t, qs)
		assert.Contains(t, qs[0].Tags, "idioms")
	})

	t.Run("TopicContainsKey", func(t *testing.T) {
		qs, ok := g.FromTopicBank("Advanced grammar drills", 10)
		require.True(t, ok)
		assert.Len(t, qs, 5)
		assert.Contains(t, qs[0].Tags, "grammar")
	})

	t.Run("KeyContainsTopic", func(t *testing.T) {
		qs, ok := g.FromTopicBank("phrasal", 2)
		require.True(t, ok)
		assert.Len(t, qs, 2)
		assert.Contains(t, qs[0].Tags, "phrasal verbs")
	})

	t.Run("NoMatch", func(t *testing.T) {
		_, ok := g.FromTopicBank("astrophysics", 5)
		assert.False(t, ok)
	})

	t.Run("EmptyTopic", func(t *testing.T) {
		_, ok := g.FromTopicBank("   ", 5)
		assert.False(t, ok)
	})

	t.Run("FreshIDs", func(t *testing.T) {
		a, _ := g.FromTopicBank("travel", 5)
		b, _ := g.FromTopicBank("travel", 5)
		assert.NotEqual(t, a[0].ID, b[0].ID)
	})
}

func TestTopicQuiz_FallsBackToGeneric(t *testing.T) {
	g := newSeeded(2)

	qs := g.TopicQuiz("Cooking", 3, models.DifficultyAdvanced)
	require.Len(t, qs, 3)
	assertWellFormed(t, qs)
	for _, q := range qs {
		assert.Equal(t, models.DifficultyAdvanced, q.Difficulty)
		assert.Contains(t, q.Tags, "cooking")
		assert.NotContains(t, q.Text, "{topic}")
	}
	assert.Contains(t, qs[0].Text, "Cooking")

	t.Run("NeverPads", func(t *testing.T) {
		assert.Len(t, g.TopicQuiz("Cooking", 50, models.DifficultyBeginner), 5)
	})

	t.Run("DefaultsCount", func(t *testing.T) {
		assert.Len(t, g.TopicQuiz("Cooking", 0, ""), DefaultQuestionCount)
	})
}

func TestContextAware(t *testing.T) {
	g := newSeeded(3)

	t.Run("Vocab", func(t *testing.T) {
		qs, err := g.ContextAware(QuizInput{Topic: "Food", Mode: models.FocusVocab, Difficulty: models.DifficultyAdvanced, QuestionCount: intPtr(4)})
		require.NoError(t, err)
		require.Len(t, qs, 4)
		assertWellFormed(t, qs)
		assert.Contains(t, qs[0].Tags, "vocab")
		assert.Equal(t, models.DifficultyAdvanced, qs[0].Difficulty)
	})

	t.Run("Grammar", func(t *testing.T) {
		qs, err := g.ContextAware(QuizInput{Topic: "Tenses", Mode: models.FocusGrammar, Difficulty: models.DifficultyBeginner})
		require.NoError(t, err)
		assert.Len(t, qs, DefaultQuestionCount)
		assertWellFormed(t, qs)
		assert.Contains(t, qs[0].Tags, "grammar")
	})

	t.Run("PoolSizeCapsCount", func(t *testing.T) {
		qs, err := g.ContextAware(QuizInput{Topic: "Tenses", Mode: models.FocusGrammar, QuestionCount: intPtr(200)})
		require.NoError(t, err)
		assert.Len(t, qs, 5)
	})

	t.Run("ComprehensionWithSource", func(t *testing.T) {
		source := "The city library opened a new reading room last spring, and it quickly became the most popular place for students to study after school."
		qs, err := g.ContextAware(QuizInput{SourceText: source, Mode: models.FocusComprehension, QuestionCount: intPtr(5)})
		require.NoError(t, err)
		require.Len(t, qs, 5)
		assertWellFormed(t, qs)

		excerpt := "The city library opened a new reading room last spring, and it quickly became the"
		assert.Equal(t, fmt.Sprintf("%q", excerpt), qs[0].CorrectAnswer)
		assert.Equal(t, "15", qs[4].CorrectAnswer)
		assert.Contains(t, qs[0].Tags, "comprehension")
	})

	t.Run("ComprehensionShortSourceFallsBack", func(t *testing.T) {
		qs, err := g.ContextAware(QuizInput{Topic: "Holidays", SourceText: "  too short  ", Mode: models.FocusComprehension, QuestionCount: intPtr(2)})
		require.NoError(t, err)
		require.Len(t, qs, 2)
		assert.Contains(t, qs[0].Text, "Holidays")
	})

	t.Run("InvalidInputHasNoSideEffects", func(t *testing.T) {
		_, err := g.ContextAware(QuizInput{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.NotEmpty(t, vErr.Messages)
	})
}

func TestBatch_Idioms(t *testing.T) {
	g := newSeeded(42)

	qs := g.Batch("Idioms", 50)
	require.Len(t, qs, 50)
	assertWellFormed(t, qs)

	ids := map[string]bool{}
	for i, q := range qs {
		assert.Len(t, q.Options, 4)
		assert.Contains(t, q.Tags, "idioms")
		assert.Equal(t, models.Levels[i%3], q.Difficulty)
		assert.Contains(t, q.Text, "idioms")
		ids[q.ID] = true
	}
	assert.Len(t, ids, 50)
}

func TestBatch_DistinctDistractors(t *testing.T) {
	for _, q := range newSeeded(9).Batch("Travel", 200) {
		seen := map[string]bool{}
		for _, o := range q.Options {
			require.False(t, seen[o], "duplicate option %q", o)
			seen[o] = true
		}
	}
}

func TestBatch_Deterministic(t *testing.T) {
	a := newSeeded(7).Batch("Business English", 30)
	b := newSeeded(7).Batch("Business English", 30)
	assert.Equal(t, a, b)
}

func TestBatch_MostlyUniquePhrasing(t *testing.T) {
	qs := newSeeded(11).Batch("Phrasal verbs", 200)
	texts := map[string]bool{}
	for _, q := range qs {
		texts[q.Text] = true
	}
	// uniqueness is best effort; with 32,000 combinations a full batch should not repeat
	assert.Len(t, texts, 200)
}

func TestBatch_ClampsCount(t *testing.T) {
	g := newSeeded(1)
	assert.Len(t, g.Batch("x", 0), 1)
	assert.Len(t, g.Batch("x", 500), MaxQuestionCount)
}

func TestValidateQuizInput(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		res := ValidateQuizInput(QuizInput{})
		assert.False(t, res.Valid)
		require.NotEmpty(t, res.Errors)
		assert.Contains(t, res.Errors[0], "topic or source text")
	})

	t.Run("TopicTooLong", func(t *testing.T) {
		res := ValidateQuizInput(QuizInput{Topic: strings.Repeat("x", 101)})
		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors, "topic must be 100 characters or fewer")
	})

	t.Run("TopicAtLimit", func(t *testing.T) {
		assert.True(t, ValidateQuizInput(QuizInput{Topic: strings.Repeat("x", 100)}).Valid)
	})

	t.Run("ZeroCount", func(t *testing.T) {
		res := ValidateQuizInput(QuizInput{Topic: "Grammar", QuestionCount: intPtr(0)})
		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors, "questionCount must be between 1 and 200")
	})

	t.Run("CountTooLarge", func(t *testing.T) {
		assert.False(t, ValidateQuizInput(QuizInput{Topic: "Grammar", QuestionCount: intPtr(201)}).Valid)
	})

	t.Run("TopicOnly", func(t *testing.T) {
		res := ValidateQuizInput(QuizInput{Topic: "Grammar"})
		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)
	})

	t.Run("SourceOnly", func(t *testing.T) {
		assert.True(t, ValidateQuizInput(QuizInput{SourceText: "Some passage"}).Valid)
	})

	t.Run("BadMode", func(t *testing.T) {
		res := ValidateQuizInput(QuizInput{Topic: "Grammar", Mode: "listening"})
		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors, "mode must be one of vocab, grammar, comprehension")
	})
}
