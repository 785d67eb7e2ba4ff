package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"marketplace-backend/internal/domain"
	"marketplace-backend/pkg/logger"

	"github.com/go-redis/redis/v8"
)

type RedisEventSubscriber struct {
	client *redis.Client
	log    logger.Logger
}

func NewEventSubscriber(client *redis.Client, log logger.Logger) *RedisEventSubscriber {
	return &RedisEventSubscriber{
		client: client,
		log:    log,
	}
}

func (r *RedisEventSubscriber) SubscribeToActivity(ctx context.Context, handler domain.ActivityHandler) error {
	pubsub := r.client.Subscribe(ctx, activityChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	r.log.Info("Subscribed to activity events")

	for {
		select {
		case msg := <-ch:
			event, err := r.parseEventData(msg.Payload)
			if err != nil {
				r.log.Error("Failed to parse event", "payload", msg.Payload, "error", err)
				continue
			}

			if err := handler(event); err != nil {
				r.log.Error("Failed to handle event", "event", event, "error", err)
			}

		case <-ctx.Done():
			r.log.Info("Event subscriber stopped")
			return ctx.Err()
		}
	}
}

func (r *RedisEventSubscriber) parseEventData(payload string) (*domain.ActivityEvent, error) {
	// Parse "type:actorID:subjectID:timestamp"
	parts := strings.Split(payload, ":")
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid event format: %s", payload)
	}

	timestamp, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return nil, err
	}

	return &domain.ActivityEvent{
		Type:      domain.ActivityType(parts[0]),
		ActorID:   parts[1],
		SubjectID: parts[2],
		Timestamp: time.Unix(timestamp, 0),
	}, nil
}
