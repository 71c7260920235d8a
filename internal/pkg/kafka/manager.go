package kafka

import (
	"Inkwell/internal/api/config"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理互动事件消费者
type ConsumerManager struct {
	topic    string
	consumer sarama.ConsumerGroup
	handler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数，kafka 未启用时返回 nil
func NewConsumerManager(cfg *config.Config, handler *NotificationHandler) (*ConsumerManager, error) {
	if !cfg.Kafka.Enable {
		return nil, nil
	}

	consumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaInteraction.GroupID, newSaramaConfig(cfg.Kafka))
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		topic:    cfg.KafkaInteraction.Topic,
		consumer: consumer,
		handler:  handler,
	}, nil
}

// Start 阻塞运行直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.consumer.Errors() {
			log.Error("Error from consumer group", "err", err)
		}
	}()

	go func() {
		log.Info("Interaction consumer started", "topic", m.topic)
		for {
			if err := m.consumer.Consume(ctx, []string{m.topic}, m.handler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.consumer.Close(); err != nil {
		log.Error("Failed to close interaction consumer", "err", err)
	}
	return nil
}
