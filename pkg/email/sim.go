package email

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

// DefaultSimDelay models typical transactional-API latency.
const DefaultSimDelay = 100 * time.Millisecond

// DefaultFailureRate is the simulated transport failure probability.
const DefaultFailureRate = 0.05

// SimSender simulates an email transport: each send sleeps for a fixed
// delay and fails with a configurable probability. Context cancellation
// during the delay is reported as a send failure, modeling a transport
// timeout. Safe for concurrent use.
type SimSender struct {
	delay       time.Duration
	failureRate float64

	mu   sync.Mutex
	rand *rand.Rand
}

// SimOption configures a SimSender.
type SimOption func(*SimSender)

// WithDelay sets the simulated latency per send.
func WithDelay(d time.Duration) SimOption {
	return func(s *SimSender) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithFailureRate sets the failure probability in [0,1].
func WithFailureRate(p float64) SimOption {
	return func(s *SimSender) {
		if p >= 0 && p <= 1 {
			s.failureRate = p
		}
	}
}

// WithRand injects a seeded random source for deterministic tests.
func WithRand(r *rand.Rand) SimOption {
	return func(s *SimSender) {
		if r != nil {
			s.rand = r
		}
	}
}

// NewSimSender creates a simulated transport with the default delay and
// failure probability.
func NewSimSender(opts ...SimOption) *SimSender {
	s := &SimSender{
		delay:       DefaultSimDelay,
		failureRate: DefaultFailureRate,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Send validates the message, waits out the simulated latency, then either
// succeeds or fails according to the configured probability.
func (s *SimSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if err := sleepCtx(ctx, s.delay); err != nil {
		return errors.Join(ErrFailedToSend, err)
	}

	s.mu.Lock()
	failed := s.rand.Float64() < s.failureRate
	s.mu.Unlock()

	if failed {
		return errors.Join(ErrFailedToSend, errors.New("simulated transport failure"))
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
