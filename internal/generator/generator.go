// Package generator synthesizes language-learning quiz questions from curated
// topic banks, focus-mode templates and a combinatorial phrase engine.
package generator

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"linguaquiz/internal/models"
	"linguaquiz/internal/random"

	"github.com/google/uuid"
)

const (
	// MaxQuestionCount is the largest batch a caller may request
	MaxQuestionCount = 200
	// MaxTopicLength is measured in characters, not bytes
	MaxTopicLength = 100
	// DefaultQuestionCount applies when a request leaves the count unset
	DefaultQuestionCount = 5

	maxUniqueAttempts = 50
	optionsPerBatch   = 4
)

// Options configures a Generator. Zero values fall back to time-seeded
// randomness, time.Now and UUID v4 ids.
type Options struct {
	Source random.Source
	Now    func() time.Time
	NewID  func() string
}

// Generator produces questions. It is safe for concurrent use; draws from the
// underlying source are serialized.
type Generator struct {
	mu    sync.Mutex
	src   random.Source
	now   func() time.Time
	newID func() string
}

// New creates a Generator
func New(opts Options) *Generator {
	g := &Generator{src: opts.Source, now: opts.Now, newID: opts.NewID}
	if g.src == nil {
		g.src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.newID == nil {
		g.newID = uuid.NewString
	}
	return g
}

// template is a fixed question whose correct answer is placed into a random slot
type template struct {
	text        string
	correct     string
	distractors []string
	explanation string
}

// build turns a template into a question. Callers must hold g.mu.
func (g *Generator) build(t template, topic string, difficulty models.Difficulty, tags []string) models.Question {
	fill := func(s string) string { return strings.ReplaceAll(s, "{topic}", topic) }

	options := make([]string, 0, len(t.distractors)+1)
	for _, d := range t.distractors {
		options = append(options, fill(d))
	}
	correct := fill(t.correct)
	slot := random.IntN(g.src, len(options)+1)
	options = append(options, "")
	copy(options[slot+1:], options[slot:])
	options[slot] = correct

	return models.Question{
		ID:            g.newID(),
		Text:          fill(t.text),
		Options:       options,
		CorrectAnswer: correct,
		Explanation:   fill(t.explanation),
		Tags:          append([]string(nil), tags...),
		Difficulty:    difficulty,
		CreatedAt:     g.now(),
	}
}

// fromPool builds min(count, len(pool)) questions. The template paths never pad.
func (g *Generator) fromPool(pool []template, count int, topic string, difficulty models.Difficulty, tags []string) []models.Question {
	if count > len(pool) {
		count = len(pool)
	}
	out := make([]models.Question, 0, count)
	for _, t := range pool[:count] {
		out = append(out, g.build(t, topic, difficulty, tags))
	}
	return out
}

func normalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

func topicTags(topic string, extra ...string) []string {
	tags := make([]string, 0, len(extra)+1)
	if t := normalizeTopic(topic); t != "" {
		tags = append(tags, t)
	}
	return append(tags, extra...)
}
