package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/poolmart/pool-settlement-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

// Publisher is what the settlement usecases emit events through.
type Publisher interface {
	PublishPool(event PoolEvent) error
	PublishPayment(event PaymentEvent) error
	PublishEscrow(event EscrowEvent) error
	PublishDispute(event DisputeEvent) error
}

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(brokers []string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *DefaultKafkaPublisher) Publish(topic string, msgs ...domain.Message) error {
	var km []kafka.Message
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  time.Now(),
			Topic: topic,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return k.writer.WriteMessages(ctx, km...)
}

// Messages are keyed by pool so per-pool event order survives
// partitioning.
func (k *DefaultKafkaPublisher) PublishPool(event PoolEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.Publish(PoolEventsTopic, domain.Message{Key: []byte(event.PoolID), Value: v})
}

func (k *DefaultKafkaPublisher) PublishPayment(event PaymentEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.Publish(PaymentEventsTopic, domain.Message{Key: []byte(event.PoolID), Value: v})
}

func (k *DefaultKafkaPublisher) PublishEscrow(event EscrowEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.Publish(PoolEventsTopic, domain.Message{Key: []byte(event.PoolID), Value: v})
}

func (k *DefaultKafkaPublisher) PublishDispute(event DisputeEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.Publish(DisputeEventsTopic, domain.Message{Key: []byte(event.PoolID), Value: v})
}
