package kafka

import (
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

const (
	EventLikePost    = "like_post"
	EventLikeComment = "like_comment"
	EventSharePost   = "share_post"
	EventFollowUser  = "follow_user"
)

// InteractionEvent 互动事件，写入 interaction topic 后由通知消费者处理
type InteractionEvent struct {
	Type       string    `json:"type"`
	ActorID    uint64    `json:"actorId"`
	ReceiverID uint64    `json:"receiverId"`
	TargetID   uint64    `json:"targetId"`
	PostID     uint64    `json:"postId,omitempty"`
	Snippet    string    `json:"snippet,omitempty"`
	TraceID    string    `json:"traceId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// toProducerMessage 以接收者为 key，保证同一用户的通知有序
func (e *InteractionEvent) toProducerMessage(topic string) (*sarama.ProducerMessage, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(e.ReceiverID, 10)),
		Value: sarama.ByteEncoder(payload),
	}, nil
}

// ToInteractionEvent 将 kafka 消息解析为互动事件
func ToInteractionEvent(msg *sarama.ConsumerMessage) (*InteractionEvent, error) {
	var event InteractionEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
