package kafka

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/segmentio/kafka-go"
)

func TestNewProducer_RequiresBrokers(t *testing.T) {
	if _, err := NewProducer(ProducerConfig{}); err == nil {
		t.Fatal("expected an error without brokers")
	}
}

func TestNewProducer_TopicPrefix(t *testing.T) {
	p, err := NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}, TopicPrefix: "  "})
	if err != nil {
		t.Fatalf("new producer: %v", err)
	}
	defer p.Close()
	if got := p.Topic("transactions"); got != "bridgeswap.transactions" {
		t.Errorf("default prefix: got %s", got)
	}

	custom, _ := NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}, TopicPrefix: "staging"})
	defer custom.Close()
	if got := custom.Topic("transactions"); got != "staging.transactions" {
		t.Errorf("custom prefix: got %s", got)
	}
}

func TestNewProducer_WritesAsynchronously(t *testing.T) {
	p, _ := NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}})
	defer p.Close()
	if !p.writer.Async {
		t.Error("writer must not block callers on broker round trips")
	}
	if p.writer.Completion == nil {
		t.Error("delivery failures need a completion callback")
	}
}

func TestProducer_LogsFailedDeliveries(t *testing.T) {
	var buf bytes.Buffer
	p, _ := NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}, Logger: logger.NewWithWriter("prod", &buf)})
	defer p.Close()

	p.writer.Completion([]kafka.Message{{Topic: "bridgeswap.transactions", Key: []byte("TXN-ABC123")}}, nil)
	if buf.Len() != 0 {
		t.Errorf("successful delivery logged: %s", buf.String())
	}
	p.writer.Completion([]kafka.Message{{Topic: "bridgeswap.transactions", Key: []byte("TXN-ABC123")}}, errors.New("leader not available"))
	out := buf.String()
	if !strings.Contains(out, "leader not available") || !strings.Contains(out, "TXN-ABC123") {
		t.Errorf("expected failure with key logged, got %s", out)
	}
}

func TestPublishJSON_RejectsUnencodable(t *testing.T) {
	p, _ := NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}})
	defer p.Close()
	err := p.PublishJSON(context.Background(), "transactions", "k", make(chan int))
	if err == nil || !strings.Contains(err.Error(), "marshal message") {
		t.Errorf("expected marshal error, got %v", err)
	}
}
