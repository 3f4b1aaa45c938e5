package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/yuitake/tana/internal/domain"
)

// RotationChannel carries one JSON message per spotlight change.
const RotationChannel = "tana:spotlight:rotations"

// SignalService fans rotation events out through Redis pub/sub so the
// realtime endpoint (and any other instance) can observe spotlight
// changes as they happen.
type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) PublishRotation(ctx context.Context, event domain.RotationEvent) error {
	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.rdb.Publish(ctx, RotationChannel, jsonstr).Err()
}

// SubscribeRotations streams rotation events until ctx is cancelled or
// the returned stop function is called.
func (s *SignalService) SubscribeRotations(ctx context.Context) (<-chan domain.RotationEvent, func()) {
	sub := s.rdb.Subscribe(ctx, RotationChannel)
	out := make(chan domain.RotationEvent)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var event domain.RotationEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.WarnContext(ctx, "dropping malformed rotation event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}

			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() {
		_ = sub.Close()
	}
	return out, stop
}
