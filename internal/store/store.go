// Package store persists the Question Bank and the Quiz Library. Each
// collection is a single JSON array rewritten wholesale on every mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"linguaquiz/internal/kv"
	"linguaquiz/internal/metrics"
	"linguaquiz/internal/random"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	QuestionBankKey = "linguaquiz.questionBank"
	QuizLibraryKey  = "linguaquiz.quizLibrary"
)

var (
	// ErrStorageCorrupt means the stored blob could not be decoded.
	// Readers that do not care see an empty collection instead.
	ErrStorageCorrupt = errors.New("stored collection is unreadable")
	ErrQuizNotFound   = errors.New("quiz not found")
)

// Options configures both collections. Zero values get defaults.
type Options struct {
	Logger  *logrus.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
	NewID   func() string
	// Source picks cover colors
	Source random.Source
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Source == nil {
		o.Source = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

// collection reads and writes one JSON array blob. mu serializes
// read-modify-write sequences within this process only.
type collection[T any] struct {
	mu      sync.Mutex
	kv      kv.Store
	key     string
	name    string
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func newCollection[T any](store kv.Store, key, name string, o Options) *collection[T] {
	return &collection[T]{kv: store, key: key, name: name, log: o.Logger, metrics: o.Metrics}
}

// load returns the stored items. A missing blob is an empty collection.
// A blob that does not decode yields an empty collection and ErrStorageCorrupt.
func (c *collection[T]) load(ctx context.Context) ([]T, error) {
	raw, ok, err := c.kv.Get(ctx, c.key)
	if err != nil {
		return []T{}, fmt.Errorf("failed to read %s: %w", c.name, err)
	}
	if !ok || raw == "" {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []T{}, fmt.Errorf("%w: %s: %v", ErrStorageCorrupt, c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// loadLenient is load for readers: failures are logged, counted and hidden
func (c *collection[T]) loadLenient(ctx context.Context) []T {
	items, err := c.load(ctx)
	if err != nil {
		c.warn(ctx, err)
	}
	return items
}

// loadForWrite treats a corrupt blob as empty so the next write replaces it,
// but refuses to write over a blob it could not read at all.
func (c *collection[T]) loadForWrite(ctx context.Context) ([]T, error) {
	items, err := c.load(ctx)
	if errors.Is(err, ErrStorageCorrupt) {
		c.warn(ctx, err)
		return items, nil
	}
	return items, err
}

func (c *collection[T]) warn(ctx context.Context, err error) {
	c.log.WithContext(ctx).WithFields(logrus.Fields{
		"collection": c.name,
		"key":        c.key,
	}).WithError(err).Warn("Loading collection failed, treating it as empty")
	c.metrics.ObserveCorruptLoad(c.name)
}

func (c *collection[T]) save(ctx context.Context, items []T) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.name, err)
	}
	if err := c.kv.Set(ctx, c.key, string(b)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", c.name, err)
	}
	c.metrics.ObserveStoreWrite(c.name)
	return nil
}

func (c *collection[T]) clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.kv.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("failed to clear %s: %w", c.name, err)
	}
	c.metrics.ObserveStoreWrite(c.name)
	return nil
}
