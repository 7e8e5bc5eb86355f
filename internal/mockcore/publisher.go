package mockcore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

// Publisher announces customer changes to the legacy stack.
type Publisher interface {
	Publish(ctx context.Context, event newcore.SyncEvent) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, newcore.SyncEvent) error { return nil }

// RecordProducer is satisfied by *kafka.Producer.
type RecordProducer interface {
	Produce(ctx context.Context, topic string, key, value []byte) error
}

// KafkaPublisher writes sync events as JSON keyed by customer id.
type KafkaPublisher struct {
	producer RecordProducer
	topic    string
}

func NewKafkaPublisher(producer RecordProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event newcore.SyncEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode sync event: %w", err)
	}
	return p.producer.Produce(ctx, p.topic, []byte(event.CustomerID), value)
}
