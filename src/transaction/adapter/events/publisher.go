package events

import (
	"context"

	kafkaInfra "github.com/MMN3003/bridgeswap/src/Infrastructure/kafka"
	"github.com/MMN3003/bridgeswap/src/transaction/domain"
)

const topic = "transactions"

var (
	_ domain.EventPublisher = (*KafkaPublisher)(nil)
	_ domain.EventPublisher = Noop{}
)

// KafkaPublisher keys messages by tracker id so one transaction's events stay ordered.
type KafkaPublisher struct {
	producer *kafkaInfra.Producer
}

func NewKafkaPublisher(p *kafkaInfra.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: p}
}

func (k *KafkaPublisher) Publish(ctx context.Context, e domain.Event) error {
	return k.producer.PublishJSON(ctx, topic, e.TrackerID, e)
}

// Topic is the full topic name events are written to.
func (k *KafkaPublisher) Topic() string {
	return k.producer.Topic(topic)
}

// Noop is used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, domain.Event) error { return nil }
