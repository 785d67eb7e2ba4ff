package services

import (
	"context"

	"marketplace-backend/internal/domain"
	"marketplace-backend/pkg/logger"
)

// ActivityRecorder is the sink for activity tallies.
type ActivityRecorder interface {
	Record(ctx context.Context, event *domain.ActivityEvent) error
}

// ActivityReader reads the tallies back for the admin dashboard. Days are
// formatted as YYYY-MM-DD in UTC.
type ActivityReader interface {
	CountForDay(ctx context.Context, activityType domain.ActivityType, day string) (int64, error)
}

// ActivityListener consumes the activity channel and feeds the counters. It
// runs until its context is cancelled.
type ActivityListener struct {
	subscriber domain.EventSubscriber
	recorder   ActivityRecorder
	log        logger.Logger
}

func NewActivityListener(subscriber domain.EventSubscriber, recorder ActivityRecorder,
	log logger.Logger) *ActivityListener {
	return &ActivityListener{
		subscriber: subscriber,
		recorder:   recorder,
		log:        log,
	}
}

func (l *ActivityListener) Run(ctx context.Context) error {
	return l.subscriber.SubscribeToActivity(ctx, func(event *domain.ActivityEvent) error {
		if err := l.recorder.Record(ctx, event); err != nil {
			l.log.Error("Failed to record activity", "type", event.Type, "error", err)
			return err
		}
		return nil
	})
}
