// Package broker publishes domain events to Kafka. With KAFKA_BROKERS unset
// the Nop publisher is used and events stay in-process.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher sends keyed JSON events.
type Publisher interface {
	Publish(ctx context.Context, key string, v any) error
	Close() error
}

// NewKafkaWriter builds a writer that balances by least bytes and creates
// the topic on first write.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}

// Message encodes v as the value of a message keyed by key.
func Message(key string, v any) (kafka.Message, error) {
	value, err := json.Marshal(v)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("broker: encode %s: %w", key, err)
	}
	return kafka.Message{Key: []byte(key), Value: value, Time: time.Now()}, nil
}

// messageWriter is the slice of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes through a kafka-go writer.
type Kafka struct {
	w messageWriter
}

// NewKafka publishes to topic on brokers.
func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{w: NewKafkaWriter(brokers, topic)}
}

// NewKafkaWithWriter wraps an existing writer.
func NewKafkaWithWriter(w messageWriter) *Kafka {
	return &Kafka{w: w}
}

func (k *Kafka) Publish(ctx context.Context, key string, v any) error {
	msg, err := Message(key, v)
	if err != nil {
		return err
	}
	if err := k.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("broker: write %s: %w", key, err)
	}
	return nil
}

func (k *Kafka) Close() error { return k.w.Close() }

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }

// New returns a Kafka publisher when brokers is non-empty, otherwise Nop.
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return Nop{}
	}
	return NewKafka(brokers, topic)
}
