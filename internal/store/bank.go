package store

import (
	"context"
	"strings"

	"linguaquiz/internal/kv"
	"linguaquiz/internal/models"
)

// QuestionBank is the flat pool of reusable questions, keyed by id
type QuestionBank struct {
	c *collection[models.Question]
}

func NewQuestionBank(store kv.Store, opts Options) *QuestionBank {
	o := opts.withDefaults()
	return &QuestionBank{c: newCollection[models.Question](store, QuestionBankKey, "question_bank", o)}
}

// GetAll returns every stored question. It never fails: unreadable data is
// logged and reported as an empty bank.
func (b *QuestionBank) GetAll(ctx context.Context) []models.Question {
	return b.c.loadLenient(ctx)
}

// Load is GetAll with the failure exposed. On ErrStorageCorrupt the returned
// slice is empty and still usable.
func (b *QuestionBank) Load(ctx context.Context) ([]models.Question, error) {
	return b.c.load(ctx)
}

// SaveQuestion appends q unless a question with its id is already stored.
// It reports whether q was added.
func (b *QuestionBank) SaveQuestion(ctx context.Context, q models.Question) (bool, error) {
	n, err := b.SaveBatch(ctx, []models.Question{q})
	return n == 1, err
}

// SaveBatch appends the questions whose ids are not yet stored and persists
// once. Ids repeated within qs are added only the first time. It returns the
// number added; nothing is written when that is zero.
func (b *QuestionBank) SaveBatch(ctx context.Context, qs []models.Question) (int, error) {
	b.c.mu.Lock()
	defer b.c.mu.Unlock()

	existing, err := b.c.loadForWrite(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{}, len(existing)+len(qs))
	for _, q := range existing {
		seen[q.ID] = struct{}{}
	}

	added := 0
	for _, q := range qs {
		if _, dup := seen[q.ID]; dup {
			continue
		}
		seen[q.ID] = struct{}{}
		existing = append(existing, q.Clone())
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := b.c.save(ctx, existing); err != nil {
		return 0, err
	}
	return added, nil
}

// Remove deletes the question with id. It reports whether one was found.
func (b *QuestionBank) Remove(ctx context.Context, id string) (bool, error) {
	b.c.mu.Lock()
	defer b.c.mu.Unlock()

	existing, err := b.c.loadForWrite(ctx)
	if err != nil {
		return false, err
	}
	kept := existing[:0]
	for _, q := range existing {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	if len(kept) == len(existing) {
		return false, nil
	}
	return true, b.c.save(ctx, kept)
}

// FilterByTag returns questions with a tag containing tag, ignoring case
func (b *QuestionBank) FilterByTag(ctx context.Context, tag string) []models.Question {
	needle := strings.ToLower(tag)
	return b.filter(ctx, func(q models.Question) bool {
		return anyContains(q.Tags, needle)
	})
}

// Search returns questions whose text or any tag contains query, ignoring case
func (b *QuestionBank) Search(ctx context.Context, query string) []models.Question {
	needle := strings.ToLower(query)
	return b.filter(ctx, func(q models.Question) bool {
		return strings.Contains(strings.ToLower(q.Text), needle) || anyContains(q.Tags, needle)
	})
}

// Clear deletes the stored bank
func (b *QuestionBank) Clear(ctx context.Context) error {
	return b.c.clear(ctx)
}

func (b *QuestionBank) filter(ctx context.Context, keep func(models.Question) bool) []models.Question {
	out := []models.Question{}
	for _, q := range b.GetAll(ctx) {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}

func anyContains(values []string, lowerNeedle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), lowerNeedle) {
			return true
		}
	}
	return false
}
