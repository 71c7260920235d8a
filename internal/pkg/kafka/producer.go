package kafka

import (
	"Inkwell/internal/api/config"
	"context"
	"fmt"
	log "log/slog"

	"github.com/IBM/sarama"
)

// EventProducer 发布互动事件
type EventProducer interface {
	Publish(ctx context.Context, event *InteractionEvent) error
	Close() error
}

type saramaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewEventProducer 创建同步生产者，kafka 未启用时返回空实现
func NewEventProducer(cfg *config.Config) (EventProducer, error) {
	if !cfg.Kafka.Enable {
		log.Warn("Kafka disabled, interaction events will be dropped")
		return NopProducer{}, nil
	}

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newSaramaConfig(cfg.Kafka))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &saramaProducer{producer: producer, topic: cfg.KafkaInteraction.Topic}, nil
}

// NewEventProducerWith 使用已有的 SyncProducer
func NewEventProducerWith(producer sarama.SyncProducer, topic string) EventProducer {
	return &saramaProducer{producer: producer, topic: topic}
}

func (s *saramaProducer) Publish(ctx context.Context, event *InteractionEvent) error {
	msg, err := event.toProducerMessage(s.topic)
	if err != nil {
		return err
	}
	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send interaction event: %w", err)
	}
	log.DebugContext(ctx, "interaction event published",
		"type", event.Type, "partition", partition, "offset", offset)
	return nil
}

func (s *saramaProducer) Close() error {
	return s.producer.Close()
}

// NopProducer 丢弃所有事件
type NopProducer struct{}

func (NopProducer) Publish(context.Context, *InteractionEvent) error { return nil }

func (NopProducer) Close() error { return nil }
