package service

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communet/communet-api/internal/queue"
)

func TestRabbitPublisher_SilentBrokerTimesOut(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	var silent net.Conn
	done := make(chan struct{})
	go func() {
		defer close(done)
		// accept and never answer the AMQP handshake
		if conn, err := ln.Accept(); err == nil {
			silent = conn
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		<-done
		if silent != nil {
			_ = silent.Close()
		}
	})

	p := NewRabbitPublisher("amqp://guest:guest@"+ln.Addr().String()+"/", 200*time.Millisecond)
	ev := queue.NewAuthEvent(queue.EventOTPRequested, 7, "8888888888", time.Now())

	start := time.Now()
	assert.Error(t, p.Publish(context.Background(), ev))
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestRabbitPublisher_ContextDeadlineShortensDial(t *testing.T) {
	p := NewRabbitPublisher("amqp://localhost/", time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.LessOrEqual(t, p.dialTimeout(ctx), 100*time.Millisecond)
	assert.Equal(t, time.Minute, p.dialTimeout(context.Background()))
	assert.Equal(t, 3*time.Second, NewRabbitPublisher("", 0).dialTimeout(context.Background()))
}

func TestAsyncPublisher_DeliversQueuedEventsOnClose(t *testing.T) {
	next := &fakeEvents{}
	p := NewAsyncPublisher(next, 4, time.Second)

	for _, typ := range []string{queue.EventOTPRequested, queue.EventUserAuthenticated} {
		require.NoError(t, p.Publish(context.Background(), queue.NewAuthEvent(typ, 7, "8888888888", time.Now())))
	}
	p.Close()

	require.Len(t, next.events, 2)
	assert.Equal(t, queue.EventOTPRequested, next.events[0].Type)
	assert.ErrorIs(t, p.Publish(context.Background(), queue.AuthEvent{Type: "late"}), ErrEventDropped)
}

func TestAsyncPublisher_DropsWhenBufferFull(t *testing.T) {
	next := newStalledPublisher()
	p := NewAsyncPublisher(next, 1, time.Minute)
	ev := queue.NewAuthEvent(queue.EventOTPRequested, 7, "8888888888", time.Now())

	require.NoError(t, p.Publish(context.Background(), ev))
	<-next.started // first event is in flight
	require.NoError(t, p.Publish(context.Background(), ev))
	assert.ErrorIs(t, p.Publish(context.Background(), ev), ErrEventDropped)

	close(next.release)
	p.Close()
	assert.Len(t, next.events, 2)
}

func TestAsyncPublisher_DeliveryBoundedByTimeout(t *testing.T) {
	next := newStalledPublisher()
	p := NewAsyncPublisher(next, 1, 50*time.Millisecond)
	require.NoError(t, p.Publish(context.Background(), queue.AuthEvent{Type: queue.EventOTPRequested}))

	done := make(chan struct{})
	go func() { p.Close(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close waited on a stalled delivery past its timeout")
	}
	assert.Empty(t, next.events)
}
