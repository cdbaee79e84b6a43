package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
)

// messageWriter часть kafka.Writer, нужная приёмнику
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

// KafkaNotifier публикует уведомления в топик Kafka
type KafkaNotifier struct {
	w   messageWriter
	now func() time.Time
}

type kafkaPayload struct {
	Type    Kind      `json:"type"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// NewKafkaNotifier создаёт writer для топика
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		w: &kafkaGo.Writer{
			Addr:     kafkaGo.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafkaGo.LeastBytes{},
		},
		now: time.Now,
	}
}

func (k *KafkaNotifier) Notify(ctx context.Context, kind Kind, message string) error {
	msg, err := k.message(kind, message)
	if err != nil {
		return err
	}
	if err := k.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func (k *KafkaNotifier) message(kind Kind, message string) (kafkaGo.Message, error) {
	payload, err := json.Marshal(kafkaPayload{Type: kind, Message: message, At: k.now().UTC()})
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to marshal notification: %w", err)
	}
	return kafkaGo.Message{Key: []byte(kind), Value: payload}, nil
}

// Close закрывает writer
func (k *KafkaNotifier) Close() error {
	return k.w.Close()
}
