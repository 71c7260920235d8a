package kafka

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/pkg/mongo"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// PublishFunc 把推送内容发往 redis 频道
type PublishFunc func(ctx context.Context, channel string, message interface{}) error

// NotificationHandler 消费互动事件，落库通知并推送给在线用户
type NotificationHandler struct {
	notificationRepo mongo.NotificationRepo
	publish          PublishFunc
}

func NewNotificationHandler(notificationRepo mongo.NotificationRepo, publish PublishFunc) *NotificationHandler {
	return &NotificationHandler{
		notificationRepo: notificationRepo,
		publish:          publish,
	}
}

func (s *NotificationHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("notification consumer setup")
	return nil
}

func (s *NotificationHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("notification consumer cleanup")
	return nil
}

func (s *NotificationHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-interaction consume claim", "partition", claim.Partition())
	if err := pullMessageBatch(session, claim, s.logic); err != nil {
		log.Error("topic-interaction process batch error", "err", err)
		return err
	}
	return nil
}

func (s *NotificationHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, err := ToInteractionEvent(msg)
	if err != nil {
		// 无法解析的消息重试也没有意义，直接跳过
		log.Error("unmarshal interaction event error", "offset", msg.Offset, "err", err)
		return nil
	}
	return s.Handle(ctx, event)
}

// Handle 处理单条互动事件
func (s *NotificationHandler) Handle(ctx context.Context, event *InteractionEvent) error {
	if event.ReceiverID == 0 || event.ReceiverID == event.ActorID {
		return nil
	}
	if event.TraceID != "" {
		ctx = logger.WithTraceID(ctx, event.TraceID)
	}

	notification := &mongo.Notification{
		ReceiverID: event.ReceiverID,
		ActorID:    event.ActorID,
		Type:       event.Type,
		TargetID:   event.TargetID,
		PostID:     event.PostID,
		Snippet:    event.Snippet,
		IsRead:     false,
		CreatedAt:  event.CreatedAt,
	}
	if err := s.notificationRepo.CreateNotification(ctx, notification); err != nil {
		log.ErrorContext(ctx, "failed to create notification", "type", event.Type, "err", err)
		return err
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return nil
	}
	channel := consts.NotificationChannelKey + strconv.FormatUint(event.ReceiverID, 10)
	// 推送失败不影响落库结果，用户下次拉取列表即可看到
	if err = s.publish(ctx, channel, payload); err != nil {
		log.WarnContext(ctx, "push notification failed", "receiver", event.ReceiverID, "err", err)
	}
	return nil
}
