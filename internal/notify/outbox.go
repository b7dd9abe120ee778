// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// Outbox is a FIFO queue of messages stored in a Redis list.
type Outbox struct {
	client *redis.Client
	key    string
}

// NewOutbox returns an outbox on the default list key.
func NewOutbox(client *redis.Client) *Outbox {
	return &Outbox{client: client, key: constants.RedisKeyMailOutbox}
}

/*
Enqueue appends a message to the outbox.

Returns:
  - error: Validation failure or Redis write failure
*/
func (outbox *Outbox) Enqueue(ctx context.Context, message Message) error {
	if err := message.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("notify_outbox_marshal_failed: %w", err)
	}

	if err := outbox.client.LPush(ctx, outbox.key, payload).Err(); err != nil {
		return fmt.Errorf("notify_outbox_enqueue_failed: %w", err)
	}

	MailEnqueuedTotal.Inc()
	return nil
}

/*
Dequeue blocks up to timeout for the oldest message.

Returns:
  - *Message: nil when the timeout elapsed with an empty outbox
  - error: Redis failure or an undecodable payload
*/
func (outbox *Outbox) Dequeue(ctx context.Context, timeout time.Duration) (*Message, error) {
	result, err := outbox.client.BRPop(ctx, timeout, outbox.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("notify_outbox_dequeue_failed: %w", err)
	}

	// BRPOP replies with [key, value].
	var message Message
	if err := json.Unmarshal([]byte(result[1]), &message); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	return &message, nil
}

// Len returns the number of pending messages.
func (outbox *Outbox) Len(ctx context.Context) (int64, error) {
	return outbox.client.LLen(ctx, outbox.key).Result()
}

// ErrMalformedMessage marks an outbox entry that could not be decoded.
var ErrMalformedMessage = errors.New("notify: malformed outbox message")
