// Package dispatch runs conversation turns asynchronously while keeping
// per-customer ordering. The webhook acknowledges immediately; the turn runs
// on a per-key worker that drains its queue in arrival order. Turns for
// different customers run concurrently.
package dispatch

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/packprint/sales-agent/pkg/logger"
	"github.com/packprint/sales-agent/pkg/metrics"
)

// TurnFunc executes one queued turn.
type TurnFunc func(ctx context.Context, customerID, message string)

type task struct {
	customerID string
	message    string
}

// Dispatcher fans queued turns out to per-key workers.
type Dispatcher struct {
	run    TurnFunc
	logger *logger.Logger

	mu     sync.Mutex
	queues map[string][]task
	closed bool

	wg      sync.WaitGroup
	baseCtx context.Context
	cancel  context.CancelFunc
}

// New builds a Dispatcher that executes turns with run.
func New(run TurnFunc, log *logger.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		run:     run,
		logger:  log,
		queues:  make(map[string][]task),
		baseCtx: ctx,
		cancel:  cancel,
	}
}

// Enqueue schedules a turn. Turns with the same customerID run strictly in
// enqueue order; a worker goroutine is started lazily per key and exits when
// its queue drains. Returns false after Shutdown.
func (d *Dispatcher) Enqueue(customerID, message string) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}

	queue, active := d.queues[customerID]
	d.queues[customerID] = append(queue, task{customerID: customerID, message: message})
	metrics.TurnsQueued.Inc()

	if !active {
		d.wg.Add(1)
		go d.drain(customerID)
	}
	d.mu.Unlock()
	return true
}

// drain runs the key's queue to exhaustion, then removes it.
func (d *Dispatcher) drain(customerID string) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		queue := d.queues[customerID]
		if len(queue) == 0 {
			delete(d.queues, customerID)
			d.mu.Unlock()
			return
		}
		next := queue[0]
		d.queues[customerID] = queue[1:]
		d.mu.Unlock()

		metrics.TurnsQueued.Dec()
		d.runOne(next)
	}
}

func (d *Dispatcher) runOne(t task) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("turn panicked",
				zap.String("customer_id", t.customerID),
				zap.Any("panic", r))
		}
	}()
	d.run(d.baseCtx, t.customerID, t.message)
}

// Shutdown stops accepting new turns and waits for queued ones to finish, or
// for ctx to expire, whichever comes first.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		d.cancel()
		return ctx.Err()
	}
	d.cancel()
	return nil
}
