package command

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	// ErrQueueFull is returned when the loop has too many pending commands.
	ErrQueueFull = errors.New("command queue full")
	// ErrQueueClosed is returned once the loop has stopped.
	ErrQueueClosed = errors.New("command queue closed")
)

type pending struct {
	ctx  context.Context
	req  Request
	done chan Result
}

// Queue carries commands from any goroutine to the single loop that owns
// the device. Submitters block for the reply; the loop never blocks.
type Queue struct {
	pending   chan pending
	closing   chan struct{}
	closeOnce sync.Once
}

// NewQueue creates a queue holding at most size pending commands.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{
		pending: make(chan pending, size),
		closing: make(chan struct{}),
	}
}

// Submit queues req and waits for the loop to run it.
func (q *Queue) Submit(ctx context.Context, req Request) (Result, error) {
	select {
	case <-q.closing:
		return Result{}, ErrQueueClosed
	default:
	}

	p := pending{ctx: ctx, req: req, done: make(chan Result, 1)}
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case q.pending <- p:
	default:
		return Result{}, ErrQueueFull
	}

	select {
	case <-q.closing:
		return Result{}, ErrQueueClosed
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case res := <-p.done:
		return res, nil
	}
}

// Poll runs at most one pending command through inv and reports whether
// one was handled. Commands whose submitter has already given up are
// dropped unrun. It never blocks.
func (q *Queue) Poll(inv *Invoker) bool {
	for {
		select {
		case p := <-q.pending:
			if err := p.ctx.Err(); err != nil {
				log.Debug().Err(err).
					Str("command", p.req.Name).
					Str("request_id", p.req.ID).
					Msg("Dropping expired command")
				continue
			}
			p.done <- inv.Invoke(p.req)
			return true
		default:
			return false
		}
	}
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Close rejects further submissions and releases waiting submitters.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.closing)
	})
}
