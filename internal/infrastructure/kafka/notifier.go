package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/notification"
)

// Notifier produces notification events to the outbound topic consumed by
// the mail sender and other downstream services.
type Notifier struct {
	client *kgo.Client
	topic  string
	log    *zap.Logger
}

func NewNotifier(brokers []string, topic string, logger *zap.Logger) (*Notifier, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka: new client: %w", err)
	}
	return &Notifier{
		client: client,
		topic:  topic,
		log:    logger.With(zap.String("component", "kafka_notifier")),
	}, nil
}

func (n *Notifier) Publish(ctx context.Context, e notification.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("kafka: marshal %s: %w", e.EventName(), err)
	}

	record := &kgo.Record{
		Topic: n.topic,
		Key:   []byte(e.EventName()),
		Value: payload,
	}
	if err := n.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("kafka: produce %s: %w", e.EventName(), err)
	}

	n.log.Debug("event_produced", zap.String("event", e.EventName()))
	return nil
}

func (n *Notifier) Close() {
	n.client.Close()
}
