// Package syncwatch follows the legacy sync topic so tests can wait until a
// registration step has been mirrored to the legacy platform.
package syncwatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Dedezuli/mocha-API-sub002/internal/platform/config"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/kafka"
	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

// ErrClosed is returned by WaitFor after the watcher stopped consuming.
var ErrClosed = errors.New("sync watcher closed")

type eventKey struct {
	customerID string
	eventType  string
}

// Watcher remembers every sync event it has consumed and wakes waiters when a
// matching one arrives. Events seen before WaitFor is called still match.
type Watcher struct {
	consumer *kafka.Consumer
	logger   *slog.Logger

	mu      sync.Mutex
	seen    map[eventKey]newcore.SyncEvent
	waiters map[eventKey][]chan newcore.SyncEvent
	done    chan struct{}
	closed  bool
}

type Option func(w *Watcher)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

func newWatcher(opts ...Option) *Watcher {
	w := &Watcher{
		logger:  slog.Default(),
		seen:    make(map[eventKey]newcore.SyncEvent),
		waiters: make(map[eventKey][]chan newcore.SyncEvent),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// New joins cfg.GroupID on cfg.SyncTopic. Call Run to start consuming.
func New(cfg config.KafkaConfig, opts ...Option) (*Watcher, error) {
	w := newWatcher(opts...)
	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:   cfg.Brokers,
		GroupID:   cfg.GroupID,
		Topics:    []string{cfg.SyncTopic},
		FromStart: true,
	}, kafka.HandlerFunc(w.handle), w.logger)
	if err != nil {
		return nil, fmt.Errorf("sync watcher: %w", err)
	}
	w.consumer = consumer
	return w, nil
}

// Run consumes until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()
	err := w.consumer.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close stops the consumer and releases every pending WaitFor.
func (w *Watcher) Close() {
	if w.consumer != nil {
		w.consumer.Close()
	}
	w.stop()
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.done)
	}
}

// handle never fails: a malformed record is logged and skipped so one bad
// producer cannot stall the group.
func (w *Watcher) handle(ctx context.Context, msg *kafka.Message) error {
	var event newcore.SyncEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		w.logger.WarnContext(ctx, "skipping malformed sync event",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}
	if event.CustomerID == "" || event.Type == "" {
		w.logger.WarnContext(ctx, "skipping incomplete sync event", "offset", msg.Offset)
		return nil
	}
	w.observe(event)
	return nil
}

func (w *Watcher) observe(event newcore.SyncEvent) {
	key := eventKey{customerID: event.CustomerID, eventType: event.Type}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.seen[key] = event
	for _, ch := range w.waiters[key] {
		ch <- event
	}
	delete(w.waiters, key)
}

// WaitFor blocks until an event of eventType for customerID has been consumed.
func (w *Watcher) WaitFor(ctx context.Context, customerID, eventType string) (newcore.SyncEvent, error) {
	key := eventKey{customerID: customerID, eventType: eventType}

	w.mu.Lock()
	if event, ok := w.seen[key]; ok {
		w.mu.Unlock()
		return event, nil
	}
	if w.closed {
		w.mu.Unlock()
		return newcore.SyncEvent{}, ErrClosed
	}
	ch := make(chan newcore.SyncEvent, 1)
	w.waiters[key] = append(w.waiters[key], ch)
	w.mu.Unlock()

	select {
	case event := <-ch:
		return event, nil
	case <-w.done:
		return newcore.SyncEvent{}, ErrClosed
	case <-ctx.Done():
		w.forget(key, ch)
		return newcore.SyncEvent{}, fmt.Errorf("waiting for %s of %s: %w", eventType, customerID, ctx.Err())
	}
}

func (w *Watcher) forget(key eventKey, ch chan newcore.SyncEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	waiters := w.waiters[key]
	for i, c := range waiters {
		if c == ch {
			w.waiters[key] = append(waiters[:i], waiters[i+1:]...)
			break
		}
	}
	if len(w.waiters[key]) == 0 {
		delete(w.waiters, key)
	}
}
