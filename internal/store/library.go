package store

import (
	"context"
	"fmt"
	"time"

	"linguaquiz/internal/kv"
	"linguaquiz/internal/models"
	"linguaquiz/internal/random"
)

// CoverColors is the palette a quiz cover is drawn from
var CoverColors = []string{
	"#6366f1", "#8b5cf6", "#ec4899", "#f43f5e",
	"#f97316", "#eab308", "#22c55e", "#06b6d4",
}

// QuizLibrary is the ordered list of saved quizzes
type QuizLibrary struct {
	c     *collection[models.Quiz]
	now   func() time.Time
	newID func() string
	src   random.Source // guarded by c.mu
}

func NewQuizLibrary(store kv.Store, opts Options) *QuizLibrary {
	o := opts.withDefaults()
	return &QuizLibrary{
		c:     newCollection[models.Quiz](store, QuizLibraryKey, "quiz_library", o),
		now:   o.Now,
		newID: o.NewID,
		src:   o.Source,
	}
}

// GetAll returns every saved quiz in creation order. It never fails:
// unreadable data is logged and reported as an empty library.
func (l *QuizLibrary) GetAll(ctx context.Context) []models.Quiz {
	return l.c.loadLenient(ctx)
}

// Load is GetAll with the failure exposed
func (l *QuizLibrary) Load(ctx context.Context) ([]models.Quiz, error) {
	return l.c.load(ctx)
}

// Get returns the quiz with id or ErrQuizNotFound
func (l *QuizLibrary) Get(ctx context.Context, id string) (models.Quiz, error) {
	for _, q := range l.GetAll(ctx) {
		if q.ID == id {
			return q, nil
		}
	}
	return models.Quiz{}, ErrQuizNotFound
}

// CreateFromSelection saves a new quiz holding copies of questions.
// Later edits to the passed-in questions do not reach the saved quiz.
func (l *QuizLibrary) CreateFromSelection(ctx context.Context, title, description string, questions []models.Question, tags []string) (models.Quiz, error) {
	l.c.mu.Lock()
	defer l.c.mu.Unlock()

	existing, err := l.c.loadForWrite(ctx)
	if err != nil {
		return models.Quiz{}, err
	}

	taken := make(map[string]struct{}, len(existing))
	for _, q := range existing {
		taken[q.ID] = struct{}{}
	}
	id := l.newID()
	for attempts := 1; ; attempts++ {
		if _, dup := taken[id]; !dup {
			break
		}
		if attempts >= 10 {
			return models.Quiz{}, fmt.Errorf("could not allocate a unique quiz id after %d attempts", attempts)
		}
		id = l.newID()
	}

	copies := make([]models.Question, len(questions))
	for i, q := range questions {
		copies[i] = q.Clone()
	}

	quiz := models.Quiz{
		ID:          id,
		Title:       title,
		Description: description,
		Questions:   copies,
		Metadata: models.QuizMetadata{
			CreatedAt:  l.now(),
			Difficulty: DeriveDifficulty(copies),
			Tags:       append([]string{}, tags...),
		},
		CoverColor: random.Pick(CoverColors, l.src),
	}

	if err := l.c.save(ctx, append(existing, quiz)); err != nil {
		return models.Quiz{}, err
	}
	return quiz, nil
}

// Update replaces the stored quiz with the same id and returns what was
// saved. Creation time, cover color and usage stats are kept from the stored
// entry and the difficulty is derived again from the new questions. It
// reports whether one was found; nothing is written otherwise.
func (l *QuizLibrary) Update(ctx context.Context, quiz models.Quiz) (models.Quiz, bool, error) {
	l.c.mu.Lock()
	defer l.c.mu.Unlock()

	existing, err := l.c.loadForWrite(ctx)
	if err != nil {
		return models.Quiz{}, false, err
	}
	for i := range existing {
		if existing[i].ID != quiz.ID {
			continue
		}
		updated := cloneQuiz(quiz)
		prev := existing[i]
		updated.CoverColor = prev.CoverColor
		updated.Metadata.CreatedAt = prev.Metadata.CreatedAt
		updated.Metadata.LastUsed = prev.Metadata.LastUsed
		updated.Metadata.AvgScore = prev.Metadata.AvgScore
		updated.Metadata.Difficulty = DeriveDifficulty(updated.Questions)
		existing[i] = updated
		if err := l.c.save(ctx, existing); err != nil {
			return models.Quiz{}, true, err
		}
		return cloneQuiz(updated), true, nil
	}
	return models.Quiz{}, false, nil
}

// Remove deletes the quiz with id. It reports whether one was found.
func (l *QuizLibrary) Remove(ctx context.Context, id string) (bool, error) {
	l.c.mu.Lock()
	defer l.c.mu.Unlock()

	existing, err := l.c.loadForWrite(ctx)
	if err != nil {
		return false, err
	}
	for i := range existing {
		if existing[i].ID == id {
			return true, l.c.save(ctx, append(existing[:i], existing[i+1:]...))
		}
	}
	return false, nil
}

// UpdateUsage stamps the quiz as used now. A non-nil score is blended into
// the average as (previous + score) / 2, with a missing previous counting as 0.
func (l *QuizLibrary) UpdateUsage(ctx context.Context, id string, score *float64) (models.Quiz, error) {
	l.c.mu.Lock()
	defer l.c.mu.Unlock()

	existing, err := l.c.loadForWrite(ctx)
	if err != nil {
		return models.Quiz{}, err
	}
	for i := range existing {
		if existing[i].ID != id {
			continue
		}
		meta := &existing[i].Metadata
		now := l.now()
		meta.LastUsed = &now
		if score != nil {
			prev := 0.0
			if meta.AvgScore != nil {
				prev = *meta.AvgScore
			}
			avg := (prev + *score) / 2
			meta.AvgScore = &avg
		}
		if err := l.c.save(ctx, existing); err != nil {
			return models.Quiz{}, err
		}
		return existing[i], nil
	}
	return models.Quiz{}, ErrQuizNotFound
}

// Clear deletes the stored library
func (l *QuizLibrary) Clear(ctx context.Context) error {
	return l.c.clear(ctx)
}

// DeriveDifficulty returns the level held by a strict majority of questions,
// checked beginner first, or mixed when no level has one.
func DeriveDifficulty(questions []models.Question) models.Difficulty {
	counts := make(map[models.Difficulty]int, len(models.Levels))
	for _, q := range questions {
		counts[q.Difficulty]++
	}
	for _, level := range models.Levels {
		if counts[level]*2 > len(questions) {
			return level
		}
	}
	return models.DifficultyMixed
}

func cloneQuiz(q models.Quiz) models.Quiz {
	c := q
	c.Questions = make([]models.Question, len(q.Questions))
	for i, item := range q.Questions {
		c.Questions[i] = item.Clone()
	}
	c.Metadata.Tags = append([]string{}, q.Metadata.Tags...)
	return c
}
