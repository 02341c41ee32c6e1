// Package audit moves audit entries off the request path. A Dispatcher buffers
// entries in a bounded channel and a single goroutine hands them to a Writer.
package audit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
)

const writeTimeout = 5 * time.Second

// Writer persists or forwards one entry.
type Writer interface {
	Write(ctx context.Context, l entity.AuditLog) error
}

type Dispatcher struct {
	w      Writer
	logger *logrus.Logger
	onDrop func()

	mu     sync.RWMutex
	closed bool
	ch     chan entity.AuditLog
	done   chan struct{}
}

// NewDispatcher starts the writer goroutine. onDrop, if set, is called for every entry dropped on a full buffer.
func NewDispatcher(w Writer, size int, logger *logrus.Logger, onDrop func()) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	d := &Dispatcher{
		w:      w,
		logger: logger,
		onDrop: onDrop,
		ch:     make(chan entity.AuditLog, size),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Send enqueues l without blocking. When the buffer is full or the dispatcher is closed the entry is dropped.
func (d *Dispatcher) Send(_ context.Context, l entity.AuditLog) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(l, "dispatcher closed")
		return
	}
	select {
	case d.ch <- l:
	default:
		d.drop(l, "buffer full")
	}
}

func (d *Dispatcher) drop(l entity.AuditLog, reason string) {
	d.logger.WithFields(logrus.Fields{"user_id": l.UserID, "action": l.Action, "reason": reason}).Warn("audit entry dropped")
	if d.onDrop != nil {
		d.onDrop()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for l := range d.ch {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.w.Write(ctx, l); err != nil {
			d.logger.WithFields(logrus.Fields{"user_id": l.UserID, "action": l.Action}).WithError(err).Error("audit write failed")
		}
		cancel()
	}
}

// Close stops accepting entries and waits until the buffer is drained or ctx ends.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.ch)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("audit dispatcher not drained"), ctx.Err())
	}
}
