package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const sendTimeout = 15 * time.Second

// Dispatcher delivers messages on background workers. Submit never blocks
// and never reports delivery failures to the caller.
type Dispatcher struct {
	sender Sender
	log    *slog.Logger
	queue  chan Message

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, log *slog.Logger, workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	d := &Dispatcher{
		sender: sender,
		log:    log,
		queue:  make(chan Message, queueSize),
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("email sender panicked", "to", msg.To, "subject", msg.Subject, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		d.log.Error("email delivery failed", "to", msg.To, "subject", msg.Subject, "error", err)
	}
}

func (d *Dispatcher) Submit(msg Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("email dispatcher closed, dropping message", "to", msg.To, "subject", msg.Subject)
		return
	}

	select {
	case d.queue <- msg:
	default:
		// queue full: drop rather than slow the request
		d.log.Warn("email queue full, dropping message", "to", msg.To, "subject", msg.Subject)
	}
}

// Close stops accepting messages and waits for queued ones to be delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}
