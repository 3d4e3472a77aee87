package producer

import (
	"context"
	"encoding/json"
	"strconv"

	"ymph-crud/internal/events"

	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafkago.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type kafkaPublisher struct {
	writer MessageWriter
	topic  string
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, events.RecordLifecycleEvent) error {
	return nil
}

// NewPublisher returns a no-op publisher when writer is nil so that the
// service runs without a broker.
func NewPublisher(writer MessageWriter, topic string) events.Publisher {
	if writer == nil {
		return noopPublisher{}
	}
	if w, ok := writer.(*kafkago.Writer); ok && w == nil {
		return noopPublisher{}
	}
	if topic == "" {
		topic = events.RecordLifecycleTopic
	}
	return &kafkaPublisher{writer: writer, topic: topic}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event events.RecordLifecycleEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafkago.Message{
		Topic: p.topic,
		Key:   []byte(event.Entity + ":" + strconv.FormatUint(uint64(event.RecordID), 10)),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "request_id", Value: []byte(event.RequestID)},
		},
	})
}
