// Package mockai simulates the latency, flakiness and confidence reporting of
// a remote AI service around any local content producer.
package mockai

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"linguaquiz/internal/metrics"
	"linguaquiz/internal/models"
	"linguaquiz/internal/random"

	"github.com/sirupsen/logrus"
)

// ErrTransientService is the simulated service failure. Callers decide whether to retry.
var ErrTransientService = errors.New("AI service temporarily unavailable")

const (
	DefaultMinDelay  = 600 * time.Millisecond
	DefaultMaxDelay  = 1500 * time.Millisecond
	DefaultErrorRate = 0.05

	minConfidence = 0.6
	maxConfidence = 0.95
)

// Config wires an Envelope's collaborators. Zero values get sensible defaults.
type Config struct {
	Source    random.Source
	Sleep     func(time.Duration)
	Now       func() time.Time
	Logger    *logrus.Logger
	Metrics   *metrics.Metrics
	MinDelay  time.Duration
	MaxDelay  time.Duration
	ErrorRate *float64
}

// Envelope holds the defaults every call starts from
type Envelope struct {
	mu       sync.Mutex
	src      random.Source
	sleep    func(time.Duration)
	now      func() time.Time
	log      *logrus.Logger
	metrics  *metrics.Metrics
	defaults callOptions
}

type callOptions struct {
	minDelay   time.Duration
	maxDelay   time.Duration
	fixedDelay *time.Duration
	errorRate  float64
	forceError bool
	confidence *float64
	actions    []string
}

// Option adjusts a single call
type Option func(*callOptions)

// WithDelayRange samples the delay uniformly from [min, max]
func WithDelayRange(min, max time.Duration) Option {
	return func(o *callOptions) { o.minDelay, o.maxDelay = min, max }
}

// WithDelay uses exactly d instead of sampling
func WithDelay(d time.Duration) Option {
	return func(o *callOptions) { o.fixedDelay = &d }
}

// WithErrorRate sets the probability of a simulated failure
func WithErrorRate(p float64) Option {
	return func(o *callOptions) { o.errorRate = p }
}

// WithForcedError makes the call fail regardless of the error rate
func WithForcedError() Option {
	return func(o *callOptions) { o.forceError = true }
}

// WithConfidence reports c instead of a random confidence
func WithConfidence(c float64) Option {
	return func(o *callOptions) { o.confidence = &c }
}

// WithSuggestedActions attaches next-step hints to the response
func WithSuggestedActions(actions ...string) Option {
	return func(o *callOptions) { o.actions = append([]string(nil), actions...) }
}

// New creates an Envelope
func New(cfg Config) *Envelope {
	e := &Envelope{
		src:     cfg.Source,
		sleep:   cfg.Sleep,
		now:     cfg.Now,
		log:     cfg.Logger,
		metrics: cfg.Metrics,
		defaults: callOptions{
			minDelay:  DefaultMinDelay,
			maxDelay:  DefaultMaxDelay,
			errorRate: DefaultErrorRate,
		},
	}
	if e.src == nil {
		e.src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.sleep == nil {
		e.sleep = time.Sleep
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}
	if cfg.MinDelay > 0 || cfg.MaxDelay > 0 {
		e.defaults.minDelay, e.defaults.maxDelay = cfg.MinDelay, cfg.MaxDelay
	}
	if cfg.ErrorRate != nil {
		e.defaults.errorRate = *cfg.ErrorRate
	}
	return e
}

func (e *Envelope) float64() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.src.Float64()
}

func (o callOptions) delay(draw float64) time.Duration {
	if o.fixedDelay != nil {
		return *o.fixedDelay
	}
	lo, hi := o.minDelay, o.maxDelay
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + time.Duration(draw*float64(hi-lo))
}

// Run waits out the simulated latency, then either fails with ErrTransientService
// without calling produce, or calls produce once and wraps its result.
// The delay always runs to completion; ctx only carries request-scoped logging fields.
// There is no retry.
func Run[T any](ctx context.Context, e *Envelope, produce func() (T, error), opts ...Option) (*models.AIResponse[T], error) {
	o := e.defaults
	for _, opt := range opts {
		opt(&o)
	}
	entry := e.log.WithContext(ctx)

	d := o.delay(e.float64())
	e.sleep(d)

	if o.forceError || e.float64() < o.errorRate {
		entry.WithField("delay_ms", d.Milliseconds()).Warn("Simulated AI service failure")
		e.metrics.ObserveEnvelope("failure")
		return nil, ErrTransientService
	}

	data, err := produce()
	if err != nil {
		e.metrics.ObserveEnvelope("producer_error")
		return nil, err
	}

	confidence := minConfidence + e.float64()*(maxConfidence-minConfidence)
	if o.confidence != nil {
		confidence = *o.confidence
	}

	e.metrics.ObserveEnvelope("success")
	entry.WithFields(logrus.Fields{"delay_ms": d.Milliseconds(), "confidence": round2(confidence)}).Debug("Mock AI call completed")
	return &models.AIResponse[T]{
		Data:             data,
		Confidence:       round2(confidence),
		SuggestedActions: o.actions,
		GeneratedAt:      e.now(),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
