package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"medibook/internal/entities"
)

// PushService fans out schedule-change events over Redis pub/sub, one channel
// per doctor. Delivery is best effort: a publish failure is logged and the
// mutation that triggered it stands.
type PushService struct {
	client *redis.Client
}

func NewPushService(client *redis.Client) *PushService {
	return &PushService{client: client}
}

func channelFor(doctorID string) string {
	return "schedule:" + doctorID
}

func (s *PushService) PublishScheduleChange(ctx context.Context, doctorID, doctorName, message string) {
	if s.client == nil {
		return
	}
	event := entities.ScheduleEvent{
		DoctorID:   doctorID,
		DoctorName: doctorName,
		Message:    message,
		Timestamp:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("error encoding schedule event")
		return
	}
	if err := s.client.Publish(ctx, channelFor(doctorID), payload).Err(); err != nil {
		log.Error().Err(err).Str("doctor", doctorID).Msg("error publishing schedule event")
	}
}

// Subscribe delivers a doctor's schedule events until the context is
// cancelled. The returned close function must be called to release the
// underlying subscription.
func (s *PushService) Subscribe(ctx context.Context, doctorID string) (<-chan entities.ScheduleEvent, func(), error) {
	if s.client == nil {
		return nil, nil, fmt.Errorf("push channel not configured")
	}
	pubsub := s.client.Subscribe(ctx, channelFor(doctorID))
	events := make(chan entities.ScheduleEvent)

	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			var event entities.ScheduleEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Error().Err(err).Msg("error decoding schedule event")
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, func() { _ = pubsub.Close() }, nil
}
