package stream

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Producer is how the rest of the code emits events; the Kafka writer is an
// implementation detail so handlers can be tested with a fake.
type Producer interface {
	Emit(ctx context.Context, ev Event) error
}

type KafkaProducer struct {
	w *kafka.Writer
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	return &KafkaProducer{w: &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}}
}

func (p *KafkaProducer) Emit(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.UserID),
		Value: payload,
	})
	if err != nil {
		log.Error().Err(err).Str("type", ev.Type).Msg("emit event")
	}
	return err
}

func (p *KafkaProducer) Close() error { return p.w.Close() }

func NewReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
}
