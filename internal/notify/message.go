// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notify delivers outbound email through a Redis-backed outbox.

Request handlers never talk to SMTP. They push a [Message] onto the outbox
list and return; a single [Worker] goroutine pops messages and hands them to
a [Sender]. Delivery failures are logged and dropped: the caller already got
its response, and a user who never receives a code simply signs up again.

Flow:

	handler ──LPUSH──▶ yamdb:mail:outbox ──BRPOP──▶ Worker ──▶ Sender (SMTP | log)
*/
package notify

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Message is one outbound plain-text email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Validate rejects messages that cannot be delivered.
func (m Message) Validate() error {
	if strings.TrimSpace(m.To) == "" {
		return errors.New("notify: message has no recipient")
	}
	if m.Subject == "" {
		return errors.New("notify: message has no subject")
	}
	return nil
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, message Message) error
}

var (
	// MailEnqueuedTotal counts messages pushed onto the outbox.
	MailEnqueuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yamdb_mail_enqueued_total",
		Help: "Total number of messages pushed onto the mail outbox",
	})

	// MailDeliveredTotal counts delivery attempts by result (sent, failed, malformed).
	MailDeliveredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yamdb_mail_delivered_total",
		Help: "Total number of mail delivery attempts by result",
	}, []string{"result"})
)
