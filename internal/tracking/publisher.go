package tracking

import (
	"context"
	"encoding/json"

	"desicargo-backend/internal/broker/messages"

	"github.com/pkg/errors"
)

type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// KafkaPublisher sends booking events keyed by booking id so each
// booking's events keep their order.
type KafkaPublisher struct {
	producer Producer
	topic    string
}

func NewKafkaPublisher(producer Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishBookingEvent(ctx context.Context, ev messages.BookingEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "encode booking event")
	}
	return p.producer.Publish(ctx, p.topic, []byte(ev.BookingID), value)
}

// InlinePublisher records events in-process when no broker is configured.
type InlinePublisher struct {
	rec *Recorder
}

func NewInlinePublisher(rec *Recorder) *InlinePublisher {
	return &InlinePublisher{rec: rec}
}

func (p *InlinePublisher) PublishBookingEvent(ctx context.Context, ev messages.BookingEvent) error {
	return p.rec.Record(ctx, ev)
}
