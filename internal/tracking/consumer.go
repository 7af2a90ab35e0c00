package tracking

import (
	"context"
	"encoding/json"
	"time"

	"desicargo-backend/internal/broker/messages"

	"github.com/sirupsen/logrus"
)

const retryDelay = 2 * time.Second

type MessageConsumer interface {
	Consume(ctx context.Context, handler func(key, value []byte) error) error
}

// Run feeds the timeline from the event stream until ctx is done. A failed
// batch is retried after a short pause; the offset is not committed.
func Run(ctx context.Context, consumer MessageConsumer, rec *Recorder, log logrus.FieldLogger) {
	log = log.WithField("component", "tracking-consumer")
	handle := func(key, value []byte) error {
		var ev messages.BookingEvent
		if err := json.Unmarshal(value, &ev); err != nil {
			log.WithError(err).WithField("key", string(key)).Warn("skipping malformed booking event")
			return nil
		}
		return rec.Record(ctx, ev)
	}

	for {
		err := consumer.Consume(ctx, handle)
		if ctx.Err() != nil {
			return
		}
		log.WithError(err).Warn("consumer stopped, retrying")

		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}
	}
}
