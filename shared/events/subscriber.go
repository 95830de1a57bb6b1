package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Handler func(ctx context.Context, stream string, event Event) error

// Subscriber reads Redis Streams through a consumer group and acknowledges
// each message once its handler succeeds. Failed messages stay pending and
// are replayed for the same consumer the next time Start runs.
type Subscriber struct {
	client        *redis.Client
	group         string
	consumer      string
	streams       []string
	handler       Handler
	batchSize     int64
	blockDuration time.Duration
}

type SubscriberConfig struct {
	Group         string
	Consumer      string
	Streams       []string
	Handler       Handler
	BatchSize     int64
	BlockDuration time.Duration
}

func NewSubscriber(client *redis.Client, config SubscriberConfig) *Subscriber {
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}
	if config.BlockDuration == 0 {
		config.BlockDuration = 5 * time.Second
	}

	return &Subscriber{
		client:        client,
		group:         config.Group,
		consumer:      config.Consumer,
		streams:       config.Streams,
		handler:       config.Handler,
		batchSize:     config.BatchSize,
		blockDuration: config.BlockDuration,
	}
}

// Start blocks until ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	for _, stream := range s.streams {
		err := s.client.XGroupCreateMkStream(ctx, stream, s.group, "0").Err()
		if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
			return fmt.Errorf("failed to create consumer group on %s: %w", stream, err)
		}
	}

	log.Printf("Subscriber started: streams=%v, group=%s, consumer=%s", s.streams, s.group, s.consumer)

	for _, stream := range s.streams {
		if err := s.replayPending(ctx, stream); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("Subscriber stopping: %v", s.streams)
			return ctx.Err()
		default:
			if err := s.readMessages(ctx); err != nil && ctx.Err() == nil {
				log.Printf("Error reading messages: %v", err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (s *Subscriber) readMessages(ctx context.Context) error {
	args := make([]string, 0, 2*len(s.streams))
	args = append(args, s.streams...)
	for range s.streams {
		args = append(args, ">")
	}

	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  args,
		Count:    s.batchSize,
		Block:    s.blockDuration,
	}).Result()

	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read from streams: %w", err)
	}

	for _, stream := range streams {
		s.handleMessages(ctx, stream.Stream, stream.Messages)
	}
	return nil
}

// replayPending walks this consumer's pending entries list on stream once,
// from the oldest entry forward. Entries whose handler fails again stay
// pending until the next start.
func (s *Subscriber) replayPending(ctx context.Context, stream string) error {
	lastID := "0"
	for {
		streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    s.group,
			Consumer: s.consumer,
			Streams:  []string{stream, lastID},
			Count:    s.batchSize,
			Block:    -1,
		}).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read pending messages on %s: %w", stream, err)
		}
		if len(streams) == 0 || len(streams[0].Messages) == 0 {
			return nil
		}

		messages := streams[0].Messages
		log.Printf("Replaying %d pending messages on %s", len(messages), stream)
		s.handleMessages(ctx, stream, messages)
		lastID = messages[len(messages)-1].ID
	}
}

func (s *Subscriber) handleMessages(ctx context.Context, stream string, messages []redis.XMessage) {
	for _, message := range messages {
		if err := s.processMessage(ctx, stream, message); err != nil {
			log.Printf("Failed to process message %s on %s: %v", message.ID, stream, err)
			continue
		}
		if err := s.client.XAck(ctx, stream, s.group, message.ID).Err(); err != nil {
			log.Printf("Failed to ACK message %s: %v", message.ID, err)
		}
	}
}

func (s *Subscriber) processMessage(ctx context.Context, stream string, message redis.XMessage) error {
	eventData, ok := message.Values["event"].(string)
	if !ok {
		return fmt.Errorf("invalid message format")
	}

	var event Event
	if err := json.Unmarshal([]byte(eventData), &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return s.handler(ctx, stream, event)
}
