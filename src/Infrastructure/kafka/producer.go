package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/segmentio/kafka-go"
)

type ProducerConfig struct {
	Brokers     []string
	TopicPrefix string
	// Logger receives delivery failures; writes are asynchronous.
	Logger *logger.Logger
}

// Producer writes JSON messages to topics named "<prefix>.<topic>".
// WriteMessages only enqueues: batches are flushed in the background and
// failed deliveries are logged from the writer's completion callback.
type Producer struct {
	writer *kafka.Writer
	prefix string
	logger *logger.Logger
}

func NewProducer(cfg ProducerConfig) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if strings.TrimSpace(cfg.TopicPrefix) == "" {
		cfg.TopicPrefix = "bridgeswap"
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	p := &Producer{prefix: cfg.TopicPrefix, logger: cfg.Logger}
	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		Async:                  true,
		Completion:             p.completed,
		AllowAutoTopicCreation: true,
	}
	return p, nil
}

func (p *Producer) completed(msgs []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, m := range msgs {
		p.logger.WithFields(map[string]interface{}{
			"topic": m.Topic,
			"key":   string(m.Key),
		}).Errorf("kafka delivery failed: %v", err)
	}
}

func (p *Producer) Topic(name string) string {
	return p.prefix + "." + name
}

// PublishJSON encodes v and enqueues it keyed by key, so every message for the
// same key lands on the same partition. Only encoding and enqueue errors are
// returned.
func (p *Producer) PublishJSON(ctx context.Context, topic, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	msg := kafka.Message{
		Topic: p.Topic(topic),
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
