package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldRecipient = "recipient_user_id"
	fieldMessage   = "message"
	fieldType      = "type"

	readBatch = 16
	readBlock = 5 * time.Second
)

// RedisChannel is the durable event channel backed by a Redis stream with a
// consumer group. The stream is totally ordered, which subsumes the
// per-recipient ordering guarantee, and entries stay pending until
// acknowledged, giving at-least-once delivery across consumer restarts.
type RedisChannel struct {
	client   *redis.Client
	stream   string
	group    string
	consumer string
	logger   *slog.Logger
}

// NewRedisChannel builds a channel bound to the given stream and group.
func NewRedisChannel(client *redis.Client, stream, group, consumer string, logger *slog.Logger) *RedisChannel {
	return &RedisChannel{client: client, stream: stream, group: group, consumer: consumer, logger: logger}
}

// Publish appends the event to the stream.
func (c *RedisChannel) Publish(ctx context.Context, evt Event) error {
	if evt.RecipientUserID == "" {
		return fmt.Errorf("event recipient is required")
	}
	return c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.stream,
		Values: map[string]any{
			fieldRecipient: evt.RecipientUserID,
			fieldMessage:   evt.Message,
			fieldType:      evt.Type,
		},
	}).Err()
}

// Run consumes the stream until ctx is cancelled. It first replays entries
// this consumer received but never acknowledged (crash before ack), then
// reads new entries. Events are acknowledged only after the handler returns
// nil; a failing handler leaves the entry pending. Pending entries are not
// reclaimed in-process: redelivery happens on the next Run, when the replay
// pass picks the entry up again.
func (c *RedisChannel) Run(ctx context.Context, handle Handler) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}

	// "0" replays this consumer's pending entries, ">" delivers new ones.
	cursor := "0"
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.consumer,
			Streams:  []string{c.stream, cursor},
			Count:    readBatch,
			Block:    readBlock,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				cursor = ">"
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			c.logger.Error("event read failed", "stream", c.stream, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		acked := 0
		for _, stream := range streams {
			for _, msg := range stream.Messages {
				evt := decode(msg.Values)
				if err := handle(ctx, evt); err != nil {
					c.logger.Error("event handler failed", "stream", c.stream, "id", msg.ID, "error", err)
					continue
				}
				if err := c.client.XAck(ctx, c.stream, c.group, msg.ID).Err(); err != nil {
					c.logger.Error("event ack failed", "stream", c.stream, "id", msg.ID, "error", err)
					continue
				}
				acked++
			}
		}

		// Leave the replay cursor once the backlog stops shrinking; entries
		// whose handler keeps failing stay pending for the next restart.
		if cursor == "0" && acked == 0 {
			cursor = ">"
		}
	}
}

func (c *RedisChannel) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group %s: %w", c.group, err)
	}
	return nil
}

func decode(values map[string]any) Event {
	evt := Event{}
	if v, ok := values[fieldRecipient].(string); ok {
		evt.RecipientUserID = v
	}
	if v, ok := values[fieldMessage].(string); ok {
		evt.Message = v
	}
	if v, ok := values[fieldType].(string); ok {
		evt.Type = v
	}
	return evt
}
