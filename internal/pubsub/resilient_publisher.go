package pubsub

import (
	"context"
	"sync"
	"time"

	"github.com/gamifyhq/gamify/internal/logger"
)

type retryEntry struct {
	event    Event
	attempts int
	lastErr  error
}

// ResilientPublisher wraps an event bus with a background retry worker.
// Events that still fail after the configured retries, or that overflow
// the retry queue, are appended to a JSONL dead-letter file.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter
	shutdown   chan struct{}
	wg         sync.WaitGroup
}

// NewResilientPublisher creates a publisher with a running retry worker
func NewResilientPublisher(inner Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	p := &ResilientPublisher{
		bus:        inner,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	p.wg.Add(1)
	go p.retryWorker()

	return p, nil
}

// PublishWithRetry attempts to publish an event. A failed first attempt
// is queued for background retry; the caller never blocks on retries.
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := p.bus.Publish(ctx, event)
	if err == nil {
		return
	}

	logger.Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err,
		"max_retries", p.maxRetries)

	entry := retryEntry{event: event, attempts: 1, lastErr: err}
	select {
	case p.retryQueue <- entry:
	default:
		logger.Warn(LogMsgRetryQueueFull, "event_type", event.Type)
		if dlErr := p.deadLetter.Write(event, entry.attempts, err); dlErr != nil {
			logger.Error(LogMsgDeadLetterWriteFailed, "error", dlErr)
		}
	}
}

// Publish satisfies the Bus interface. It never fails the caller;
// delivery problems are handled by the retry worker.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	p.PublishWithRetry(ctx, event)
	return nil
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.bus.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.shutdown:
			p.drainQueue()
			return
		case entry := <-p.retryQueue:
			delay := CalculateRetryDelay(p.retryDelay, entry.attempts)
			select {
			case <-time.After(delay):
			case <-p.shutdown:
				// Skip the remaining backoff during shutdown and make a
				// last attempt right away.
			}

			err := p.bus.Publish(context.Background(), entry.event)
			if err == nil {
				logger.Info(LogMsgEventRetrySucceeded,
					"event_type", entry.event.Type,
					"attempt", entry.attempts)
				continue
			}

			entry.attempts++
			entry.lastErr = err

			if entry.attempts > p.maxRetries {
				logger.Warn(LogMsgEventRetryExhausted,
					"event_type", entry.event.Type,
					"attempts", entry.attempts)
				if dlErr := p.deadLetter.Write(entry.event, entry.attempts, err); dlErr != nil {
					logger.Error(LogMsgDeadLetterWriteFailed, "error", dlErr)
				}
				continue
			}

			logger.Warn(LogMsgEventRetryFailed,
				"event_type", entry.event.Type,
				"attempt", entry.attempts,
				"error", err)

			select {
			case p.retryQueue <- entry:
			default:
				if dlErr := p.deadLetter.Write(entry.event, entry.attempts, err); dlErr != nil {
					logger.Error(LogMsgDeadLetterWriteFailed, "error", dlErr)
				}
			}
		}
	}
}

// drainQueue makes one final publish attempt for every queued entry and
// dead-letters the ones that still fail.
func (p *ResilientPublisher) drainQueue() {
	drained := 0
	for {
		select {
		case entry := <-p.retryQueue:
			drained++
			if err := p.bus.Publish(context.Background(), entry.event); err != nil {
				if dlErr := p.deadLetter.Write(entry.event, entry.attempts, err); dlErr != nil {
					logger.Error(LogMsgDeadLetterWriteFailed, "error", dlErr)
				}
			}
		default:
			if drained > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "drained", drained)
			}
			return
		}
	}
}

// Shutdown stops the retry worker, draining pending retries. It returns
// the context error when the worker does not finish in time.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	close(p.shutdown)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return p.deadLetter.Close()
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
