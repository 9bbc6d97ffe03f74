package dispatch

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/trackkit/pkg/bus"
	"github.com/dmitrymomot/trackkit/pkg/email"
	"github.com/dmitrymomot/trackkit/pkg/logger"
	"github.com/dmitrymomot/trackkit/pkg/tmpl"
)

// DefaultQueueCapacity bounds the delivery queue; the oldest completion is
// evicted on overflow.
const DefaultQueueCapacity = 50

// DefaultSendTimeout bounds one transport attempt when dispatching from bus
// events; a timeout surfaces as a service_error result.
const DefaultSendTimeout = 10 * time.Second

// Reason discriminates unsuccessful dispatch outcomes.
type Reason string

const (
	ReasonDisabled         Reason = "disabled"
	ReasonCategoryDisabled Reason = "category_disabled"
	ReasonNoTemplate       Reason = "no_template"
	ReasonServiceError     Reason = "service_error"
)

// Status marks how a queued delivery resolved.
type Status string

const (
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// QueuedDelivery records one resolved send attempt. Never mutated after
// creation.
type QueuedDelivery struct {
	ID        string    `json:"id"`
	To        []string  `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
	Status    Status    `json:"status"`
}

// Result is the outcome of one Dispatch call. Callers inspect Success and
// Reason; no dispatch path raises an error.
type Result struct {
	Success  bool
	Reason   Reason
	Delivery *QueuedDelivery
}

// Preferences is the per-user delivery configuration snapshot taken at
// Initialize time. The identity collaborator owns the source of truth;
// the dispatcher only reads its copy.
type Preferences struct {
	Email      string
	Enabled    bool
	Categories map[string]bool
}

// Stats summarizes the current queue contents.
type Stats struct {
	Total       int     `json:"total"`
	Sent        int     `json:"sent"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"` // percent, one decimal, 0 when empty
}

// Dispatcher renders and sends templated notifications through an email
// transport, gated by user preferences. All methods are safe for
// concurrent use.
type Dispatcher struct {
	mu         sync.Mutex
	enabled    bool
	userEmail  string
	categories map[string]bool
	templates  map[string]Template
	queue      []QueuedDelivery // most-recent-completed-first
	capacity   int

	sender      email.Sender
	sendTimeout time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTemplate registers or overrides the template for a category.
func WithTemplate(category string, t Template) Option {
	return func(d *Dispatcher) {
		d.templates[category] = t
	}
}

// WithQueueCapacity overrides the default delivery queue bound.
func WithQueueCapacity(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.capacity = n
		}
	}
}

// WithSendTimeout bounds each bus-driven transport attempt.
func WithSendTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.sendTimeout = timeout
		}
	}
}

// WithLogger sets the dispatcher's logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.logger = log
		}
	}
}

// WithClock injects the time source used to stamp queued deliveries.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// New creates a dispatcher with the default category templates. It starts
// disabled; Initialize supplies the user snapshot and enable flags.
func New(sender email.Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		categories:  make(map[string]bool),
		templates:   defaultTemplates(),
		capacity:    DefaultQueueCapacity,
		sender:      sender,
		sendTimeout: DefaultSendTimeout,
		logger:      slog.Default(),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Initialize snapshots the user's delivery preferences. Idempotent; calling
// it again hot-swaps the snapshot. Already-queued deliveries are untouched.
func (d *Dispatcher) Initialize(prefs Preferences) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.enabled = prefs.Enabled
	d.userEmail = prefs.Email
	d.categories = make(map[string]bool, len(prefs.Categories))
	for category, on := range prefs.Categories {
		d.categories[category] = on
	}
}

// SetEnabled flips the master flag. Applies to subsequent Dispatch calls
// only; in-flight sends are not cancelled.
func (d *Dispatcher) SetEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = enabled
}

// Enabled reports the master flag.
func (d *Dispatcher) Enabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled
}

// UpdatePreferences merges partial per-category changes into the current
// snapshot. Categories absent from the argument keep their flags.
func (d *Dispatcher) UpdatePreferences(partial map[string]bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for category, on := range partial {
		d.categories[category] = on
	}
}

// Dispatch renders the category template against payload and sends it.
// Fast-fail paths (master flag off, category off, unknown template) return
// before any transport work. Recipients default to the initialized user's
// own address when none are supplied.
func (d *Dispatcher) Dispatch(ctx context.Context, category string, payload map[string]any, recipients ...string) Result {
	d.mu.Lock()
	if !d.enabled {
		d.mu.Unlock()
		return Result{Reason: ReasonDisabled}
	}
	if !d.categories[category] {
		d.mu.Unlock()
		return Result{Reason: ReasonCategoryDisabled}
	}
	template, ok := d.templates[category]
	if !ok {
		d.mu.Unlock()
		return Result{Reason: ReasonNoTemplate}
	}
	if len(recipients) == 0 && d.userEmail != "" {
		recipients = []string{d.userEmail}
	}
	d.mu.Unlock()

	msg := email.Message{
		To:      recipients,
		Subject: tmpl.Render(template.Subject, payload),
		Body:    tmpl.Render(template.Body, payload),
		Tag:     category,
	}

	// Send outside the lock so concurrent dispatches overlap; only the
	// completion's queue append is serialized.
	if err := d.sender.Send(ctx, msg); err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "delivery send failed",
			logger.Category(category),
			logger.Error(err),
		)
		delivery := d.enqueue(msg, StatusFailed)
		return Result{Reason: ReasonServiceError, Delivery: &delivery}
	}

	delivery := d.enqueue(msg, StatusSent)
	d.logger.LogAttrs(ctx, slog.LevelDebug, "delivery sent",
		logger.Category(category),
		logger.DeliveryID(delivery.ID),
	)
	return Result{Success: true, Delivery: &delivery}
}

// enqueue records a resolved send attempt, most-recent-first, trimmed to
// capacity. Order of arrival is completion order, not invocation order.
func (d *Dispatcher) enqueue(msg email.Message, status Status) QueuedDelivery {
	delivery := QueuedDelivery{
		ID:        uuid.New().String(),
		To:        append([]string(nil), msg.To...),
		Subject:   msg.Subject,
		Body:      msg.Body,
		Timestamp: d.now(),
		Status:    status,
	}

	d.mu.Lock()
	d.queue = append([]QueuedDelivery{delivery}, d.queue...)
	if len(d.queue) > d.capacity {
		d.queue = d.queue[:d.capacity]
	}
	d.mu.Unlock()

	return delivery
}

// Queue returns a copy of the delivery queue, most-recent-first.
func (d *Dispatcher) Queue() []QueuedDelivery {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]QueuedDelivery(nil), d.queue...)
}

// Stats computes success accounting from the current queue contents at call
// time. SuccessRate is sent/total*100 rounded to one decimal, 0 when the
// queue is empty.
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	stats := Stats{Total: len(d.queue)}
	for _, delivery := range d.queue {
		if delivery.Status == StatusSent {
			stats.Sent++
		} else {
			stats.Failed++
		}
	}
	if stats.Total > 0 {
		stats.SuccessRate = math.Round(float64(stats.Sent)/float64(stats.Total)*1000) / 10
	}
	return stats
}

// Attach subscribes the dispatcher to the bus kinds in mapping (nil means
// DefaultKindCategories). Each matching event dispatches in its own
// goroutine so a slow transport never blocks bus delivery; in-flight sends
// are bounded by the configured send timeout. The returned func detaches
// all subscriptions.
func (d *Dispatcher) Attach(b *bus.Bus, mapping map[bus.Kind]string) func() {
	if mapping == nil {
		mapping = DefaultKindCategories()
	}

	subs := make([]*bus.Subscription, 0, len(mapping))
	var wg sync.WaitGroup
	for kind, category := range mapping {
		category := category
		subs = append(subs, b.Subscribe(kind, func(event bus.Event) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
				defer cancel()
				d.Dispatch(ctx, category, event.Payload)
			}()
		}))
	}

	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
		wg.Wait()
	}
}
