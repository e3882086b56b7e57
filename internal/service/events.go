package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/communet/communet-api/internal/queue"
)

// ErrEventDropped is returned by AsyncPublisher when its buffer is full or
// it has been closed.
var ErrEventDropped = errors.New("auth event dropped")

// RabbitPublisher publishes auth events to the durable auth.events queue.
// Each Publish opens its own connection.  The dial and AMQP handshake are
// bounded by DialTimeout, or by ctx's deadline when that is sooner.
type RabbitPublisher struct {
	URL         string
	DialTimeout time.Duration
}

func NewRabbitPublisher(url string, dialTimeout time.Duration) *RabbitPublisher {
	return &RabbitPublisher{URL: url, DialTimeout: dialTimeout}
}

func (p *RabbitPublisher) dialTimeout(ctx context.Context) time.Duration {
	d := p.DialTimeout
	if d <= 0 {
		d = 3 * time.Second
	}
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < d {
			d = left
		}
	}
	return d
}

// Publish sends ev as a persistent JSON message.
func (p *RabbitPublisher) Publish(ctx context.Context, ev queue.AuthEvent) error {
	timeout := p.dialTimeout(ctx)
	if timeout <= 0 {
		return context.DeadlineExceeded
	}
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue.AuthEventsQueue, // name
		true,                  // durable
		false,                 // autoDelete
		false,                 // exclusive
		false,                 // noWait
		nil,                   // args
	); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx, "", queue.AuthEventsQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// AsyncPublisher queues events in a bounded buffer and hands them to Next
// from a single background goroutine, so a slow or unreachable broker never
// delays the request that produced the event.  Each delivery is bounded by
// Timeout.  Events that do not fit in the buffer are dropped.
type AsyncPublisher struct {
	Next    EventPublisher
	Timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan queue.AuthEvent
	done   chan struct{}
}

// NewAsyncPublisher starts the delivery goroutine.  Close stops it after the
// buffered events have been handed to next.
func NewAsyncPublisher(next EventPublisher, buffer int, timeout time.Duration) *AsyncPublisher {
	if buffer < 1 {
		buffer = 1
	}
	p := &AsyncPublisher{
		Next:    next,
		Timeout: timeout,
		queue:   make(chan queue.AuthEvent, buffer),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues ev without blocking.
func (p *AsyncPublisher) Publish(_ context.Context, ev queue.AuthEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrEventDropped
	}
	select {
	case p.queue <- ev:
		return nil
	default:
		return ErrEventDropped
	}
}

// Close stops accepting events and waits for the queued ones to be
// delivered or to fail.
func (p *AsyncPublisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	for ev := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		if err := p.Next.Publish(ctx, ev); err != nil {
			log.Warn().Err(err).Str("event", ev.Type).Uint64("user_id", ev.UserID).Msg("auth event not delivered")
		}
		cancel()
	}
}
