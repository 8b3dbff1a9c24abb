package events

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/config"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const (
	headerEventType = "event_type"
	headerEventID   = "event_id"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink forwards bus events to a Kafka topic, keyed by entity so events
// of one booking or item stay ordered within a partition.
type KafkaSink struct {
	writer  messageWriter
	timeout time.Duration
	logger  *zerolog.Logger
}

func NewKafkaSink(cfg config.KafkaConfig, logger *zerolog.Logger) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        cfg.Async,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error().Msgf(msg, args...)
		}),
	}
	return newKafkaSink(writer, logger), nil
}

func newKafkaSink(w messageWriter, logger *zerolog.Logger) *KafkaSink {
	return &KafkaSink{writer: w, timeout: 5 * time.Second, logger: logger}
}

// Attach subscribes the sink to every published event type.
func (s *KafkaSink) Attach(bus Subscriber) {
	for _, eventType := range AllEventTypes {
		bus.Subscribe(eventType, s.Handle)
	}
}

// Handle writes one event to the topic.
func (s *KafkaSink) Handle(event *Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.Key),
		Value: event.Payload,
		Time:  event.CreatedAt,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(event.Type)},
			{Key: headerEventID, Value: []byte(event.ID)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event to kafka: %w", event.Type, err)
	}
	s.logger.Debug().Str("event_type", event.Type).Str("key", event.Key).Msg("event forwarded to kafka")
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
