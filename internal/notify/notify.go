package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	OutcomeSaved       Outcome = "saved"
	OutcomeSaveFailed  Outcome = "save_failed"
	OutcomeSubmitted   Outcome = "submitted"
	OutcomeTimeExpired Outcome = "time_expired"
)

// DefaultChannel is the redis pub/sub channel session events are published on.
const DefaultChannel = "examdesk:session-events"

type Event struct {
	ID                uuid.UUID `json:"id"`
	Outcome           Outcome   `json:"outcome"`
	AttemptID         uint      `json:"attempt_id"`
	TestID            uint      `json:"test_id"`
	StudentID         string    `json:"student_id"`
	Message           string    `json:"message"`
	FailedQuestionIDs []uint    `json:"failed_question_ids,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// NewEvent stamps the event with at, which callers take from their injected clock.
func NewEvent(outcome Outcome, attemptID, testID uint, studentID, message string, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Outcome:    outcome,
		AttemptID:  attemptID,
		TestID:     testID,
		StudentID:  studentID,
		Message:    message,
		OccurredAt: at.UTC(),
	}
}

// Notifier delivers user-facing session outcomes. Implementations must not block for long;
// delivery failures are logged, never returned to the session.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

type logNotifier struct{}

func NewLogNotifier() Notifier { return logNotifier{} }

func (logNotifier) Notify(_ context.Context, ev Event) {
	var e *zerolog.Event
	if ev.Outcome == OutcomeSaveFailed {
		e = log.Warn()
	} else {
		e = log.Info()
	}
	e.Str("event_id", ev.ID.String()).
		Str("outcome", string(ev.Outcome)).
		Uint("attemptID", ev.AttemptID).
		Uint("testID", ev.TestID).
		Str("studentID", ev.StudentID).
		Interface("failed_question_ids", ev.FailedQuestionIDs).
		Msg(ev.Message)
}

type redisNotifier struct {
	rdb     *redis.Client
	channel string
}

func NewRedisNotifier(rdb *redis.Client, channel string) Notifier {
	if channel == "" {
		channel = DefaultChannel
	}
	return &redisNotifier{rdb: rdb, channel: channel}
}

func (n *redisNotifier) Notify(ctx context.Context, ev Event) {
	if err := n.publish(ctx, ev); err != nil {
		log.Error().Err(err).Str("event_id", ev.ID.String()).Msg("Failed to publish session event")
	}
}

func (n *redisNotifier) publish(ctx context.Context, ev Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return n.rdb.Publish(ctx, n.channel, raw).Err()
}

type multi []Notifier

// Multi fans an event out to every notifier in order.
func Multi(notifiers ...Notifier) Notifier {
	return multi(notifiers)
}

func (m multi) Notify(ctx context.Context, ev Event) {
	for _, n := range m {
		n.Notify(ctx, ev)
	}
}

// NewNotifier always logs and additionally publishes to redis when a client is available.
func NewNotifier(rdb *redis.Client) Notifier {
	if rdb == nil {
		return NewLogNotifier()
	}
	return Multi(NewLogNotifier(), NewRedisNotifier(rdb, DefaultChannel))
}
