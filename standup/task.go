package standup

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one send.
type Result struct {
	ChannelID string
	MessageID string
	Err       error
}

// Task is a send in flight. Its result becomes available once Done is closed.
type Task struct {
	done   chan struct{}
	result Result
}

// Done is closed when the send has finished and its continuation has run.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx expires.
func (t *Task) Wait(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// ErrOutboxClosed is the result of a send started after Close.
var ErrOutboxClosed = errors.New("outbox closed")

// Outbox runs sends in the background so that event handling never waits on
// the network. Go always returns immediately; when a concurrency cap is set,
// queued sends wait for a slot inside their own goroutine.
type Outbox struct {
	group   errgroup.Group
	slots   chan struct{}
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

// NewOutbox creates an outbox. limit caps concurrent sends (0 or less means
// no cap) and timeout bounds each send (0 means no bound).
func NewOutbox(limit int, timeout time.Duration) *Outbox {
	o := &Outbox{timeout: timeout}
	if limit > 0 {
		o.slots = make(chan struct{}, limit)
	}
	return o
}

// Go starts send in the background. then, if non-nil, runs with the result
// before the task is marked done. After Close the task completes at once
// with ErrOutboxClosed and send is not called.
func (o *Outbox) Go(send func(ctx context.Context) Result, then func(Result)) *Task {
	t := &Task{done: make(chan struct{})}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		t.result = Result{Err: ErrOutboxClosed}
		close(t.done)
		return t
	}

	o.group.Go(func() error {
		defer close(t.done)

		if o.slots != nil {
			o.slots <- struct{}{}
			defer func() { <-o.slots }()
		}

		ctx := context.Background()
		if o.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, o.timeout)
			defer cancel()
		}

		t.result = send(ctx)
		if then != nil {
			then(t.result)
		}
		return nil
	})
	return t
}

// Wait blocks until every task started so far has finished.
func (o *Outbox) Wait() {
	_ = o.group.Wait()
}

// Close refuses further sends and waits for the ones in flight.
func (o *Outbox) Close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	o.Wait()
}
