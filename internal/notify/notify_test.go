// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/notify"
	"github.com/taibuivan/yamdb/internal/platform/constants"
)

func newOutbox(t *testing.T) (*notify.Outbox, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return notify.NewOutbox(client), server
}

type recordingSender struct {
	mu       sync.Mutex
	messages []notify.Message
	err      error
}

func (s *recordingSender) Send(_ context.Context, message notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	return s.err
}

func (s *recordingSender) sent() []notify.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Message(nil), s.messages...)
}

func TestOutbox_FIFO(t *testing.T) {
	outbox, _ := newOutbox(t)
	ctx := context.Background()

	require.NoError(t, outbox.Enqueue(ctx, notify.Message{To: "a@x.com", Subject: "s", Body: "1"}))
	require.NoError(t, outbox.Enqueue(ctx, notify.Message{To: "b@x.com", Subject: "s", Body: "2"}))

	length, err := outbox.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), length)

	first, err := outbox.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "a@x.com", first.To)

	second, err := outbox.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "2", second.Body)
}

func TestOutbox_RejectsInvalid(t *testing.T) {
	outbox, server := newOutbox(t)

	err := outbox.Enqueue(context.Background(), notify.Message{Subject: "no recipient"})
	assert.Error(t, err)
	assert.False(t, server.Exists(constants.RedisKeyMailOutbox))
}

func TestOutbox_Malformed(t *testing.T) {
	outbox, server := newOutbox(t)
	_, err := server.Lpush(constants.RedisKeyMailOutbox, "{not json")
	require.NoError(t, err)

	_, err = outbox.Dequeue(context.Background(), time.Second)
	assert.ErrorIs(t, err, notify.ErrMalformedMessage)
}

func TestWorker_DeliversAndStops(t *testing.T) {
	outbox, _ := newOutbox(t)
	sender := &recordingSender{}
	worker := notify.NewWorker(outbox, sender, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, worker.Run(ctx))
	}()

	message := notify.Message{To: "bob@x.com", Subject: "YaMDb registration code", Body: "Confirmation code: K7Q2ZD."}
	require.NoError(t, outbox.Enqueue(context.Background(), message))

	assert.Eventually(t, func() bool { return len(sender.sent()) == 1 }, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, message, sender.sent()[0])

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}

func TestWorker_FailedDeliveryIsDropped(t *testing.T) {
	outbox, _ := newOutbox(t)
	sender := &recordingSender{err: errors.New("relay down")}
	worker := notify.NewWorker(outbox, sender, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	require.NoError(t, outbox.Enqueue(context.Background(), notify.Message{To: "bob@x.com", Subject: "s"}))

	assert.Eventually(t, func() bool { return len(sender.sent()) == 1 }, 5*time.Second, 20*time.Millisecond)

	// The message is not requeued after a failure.
	length, err := outbox.Len(context.Background())
	require.NoError(t, err)
	assert.Zero(t, length)
}

func TestLogSender(t *testing.T) {
	sender := notify.NewLogSender(slog.Default())
	assert.NoError(t, sender.Send(context.Background(), notify.Message{To: "a@x.com", Subject: "s"}))
}

func TestNewSMTPSender(t *testing.T) {
	sender, err := notify.NewSMTPSender(notify.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "noreply@yamdb.local",
	})
	require.NoError(t, err)
	assert.NotNil(t, sender)

	_, err = notify.NewSMTPSender(notify.SMTPConfig{Port: 587})
	assert.Error(t, err)
}
