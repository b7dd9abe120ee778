// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	// defaultPopTimeout bounds each BRPOP so cancellation is noticed promptly.
	defaultPopTimeout = time.Second
	// sendTimeout caps a single delivery attempt.
	sendTimeout = 30 * time.Second
	// errorBackoff is the pause after a Redis failure.
	errorBackoff = 2 * time.Second
)

// Queue is the consumer side of the outbox.
type Queue interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*Message, error)
}

// Worker drains the outbox into a [Sender].
type Worker struct {
	queue      Queue
	sender     Sender
	logger     *slog.Logger
	popTimeout time.Duration
}

// NewWorker wires a worker with the default pop timeout.
func NewWorker(queue Queue, sender Sender, logger *slog.Logger) *Worker {
	return &Worker{
		queue:      queue,
		sender:     sender,
		logger:     logger.With(slog.String("component", "mail_worker")),
		popTimeout: defaultPopTimeout,
	}
}

/*
Run processes messages until ctx is cancelled.

Each message is attempted once. Run returns nil once ctx is cancelled.
*/
func (worker *Worker) Run(ctx context.Context) error {
	worker.logger.Info("mail_worker_started")
	defer worker.logger.Info("mail_worker_stopped")

	for {
		if ctx.Err() != nil {
			return nil
		}

		message, err := worker.queue.Dequeue(ctx, worker.popTimeout)
		switch {
		case err == nil && message == nil:
			continue

		case errors.Is(err, ErrMalformedMessage):
			MailDeliveredTotal.WithLabelValues("malformed").Inc()
			worker.logger.Error("mail_message_malformed", slog.Any("error", err))
			continue

		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			worker.logger.Error("mail_outbox_unavailable", slog.Any("error", err))
			if !sleep(ctx, errorBackoff) {
				return nil
			}
			continue
		}

		worker.deliver(ctx, *message)
	}
}

func (worker *Worker) deliver(ctx context.Context, message Message) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := worker.sender.Send(sendCtx, message); err != nil {
		MailDeliveredTotal.WithLabelValues("failed").Inc()
		worker.logger.Error("mail_delivery_failed",
			slog.String("to", message.To),
			slog.String("subject", message.Subject),
			slog.Any("error", err),
		)
		return
	}

	MailDeliveredTotal.WithLabelValues("sent").Inc()
	worker.logger.Info("mail_delivered",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
	)
}

// sleep waits for d or until ctx ends. It reports whether the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
