package redis

import (
	"context"
	"fmt"

	"marketplace-backend/internal/domain"

	"github.com/go-redis/redis/v8"
)

const activityChannel = "marketplace_activity"

type EventPublisherImpl struct {
	client *redis.Client
}

func NewEventPublisher(client *redis.Client) *EventPublisherImpl {
	return &EventPublisherImpl{client: client}
}

func (r *EventPublisherImpl) PublishActivity(ctx context.Context, event *domain.ActivityEvent) error {
	eventData := fmt.Sprintf("%s:%s:%s:%d",
		event.Type, event.ActorID, event.SubjectID, event.Timestamp.Unix())

	return r.client.Publish(ctx, activityChannel, eventData).Err()
}
