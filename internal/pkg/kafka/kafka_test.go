package kafka

import (
	"Inkwell/internal/pkg/mongo"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) CreateNotification(ctx context.Context, n *mongo.Notification) error {
	return m.Called(n).Error(0)
}

func (m *mockNotificationRepo) GetNotificationList(ctx context.Context, userID uint64, limit, offset int64) ([]*mongo.Notification, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*mongo.Notification), args.Error(1)
}

func (m *mockNotificationRepo) MarkAsRead(ctx context.Context, userID uint64, id string) error {
	return m.Called(userID, id).Error(0)
}

func (m *mockNotificationRepo) MarkAllAsRead(ctx context.Context, userID uint64) error {
	return m.Called(userID).Error(0)
}

func (m *mockNotificationRepo) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

type published struct {
	channel string
	payload []byte
}

func recordPublish(out *[]published) PublishFunc {
	return func(_ context.Context, channel string, message interface{}) error {
		*out = append(*out, published{channel: channel, payload: message.([]byte)})
		return nil
	}
}

func TestNotificationHandler_PersistsAndPushes(t *testing.T) {
	repo := new(mockNotificationRepo)
	repo.On("CreateNotification", mock.MatchedBy(func(n *mongo.Notification) bool {
		return n.ReceiverID == 2 && n.ActorID == 1 && n.Type == EventLikePost && !n.IsRead
	})).Return(nil).Once()

	var pushes []published
	h := NewNotificationHandler(repo, recordPublish(&pushes))

	err := h.Handle(context.Background(), &InteractionEvent{
		Type:       EventLikePost,
		ActorID:    1,
		ReceiverID: 2,
		TargetID:   5,
		PostID:     5,
		Snippet:    "hello",
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)

	require.Len(t, pushes, 1)
	assert.Equal(t, "notify:user:2", pushes[0].channel)

	var n mongo.Notification
	require.NoError(t, json.Unmarshal(pushes[0].payload, &n))
	assert.Equal(t, uint64(5), n.PostID)
	assert.Equal(t, "hello", n.Snippet)
}

func TestNotificationHandler_SkipsSelfAction(t *testing.T) {
	repo := new(mockNotificationRepo)
	var pushes []published
	h := NewNotificationHandler(repo, recordPublish(&pushes))

	err := h.Handle(context.Background(), &InteractionEvent{Type: EventLikeComment, ActorID: 3, ReceiverID: 3})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "CreateNotification", mock.Anything)
	assert.Empty(t, pushes)
}

func TestNotificationHandler_StoreFailureIsRetried(t *testing.T) {
	repo := new(mockNotificationRepo)
	repo.On("CreateNotification", mock.Anything).Return(errors.New("mongo down")).Once()
	var pushes []published
	h := NewNotificationHandler(repo, recordPublish(&pushes))

	err := h.Handle(context.Background(), &InteractionEvent{Type: EventFollowUser, ActorID: 1, ReceiverID: 9})
	assert.Error(t, err)
	assert.Empty(t, pushes)
}

func TestNotificationHandler_BadPayloadIsSkipped(t *testing.T) {
	repo := new(mockNotificationRepo)
	h := NewNotificationHandler(repo, recordPublish(new([]published)))

	err := h.logic(context.Background(), &sarama.ConsumerMessage{Value: []byte("{broken")})
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "CreateNotification", mock.Anything)
}

func TestEventProducer_Publish(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		event, err := ToInteractionEvent(&sarama.ConsumerMessage{Value: val})
		if err != nil {
			return err
		}
		if event.Type != EventSharePost || event.ReceiverID != 4 {
			return errors.New("unexpected event")
		}
		return nil
	})

	p := NewEventProducerWith(sp, "interactions")
	err := p.Publish(context.Background(), &InteractionEvent{Type: EventSharePost, ActorID: 1, ReceiverID: 4, TargetID: 8})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestInteractionEvent_KeyedByReceiver(t *testing.T) {
	msg, err := (&InteractionEvent{Type: EventLikePost, ReceiverID: 77}).toProducerMessage("t")
	require.NoError(t, err)

	key, err := msg.Key.Encode()
	require.NoError(t, err)
	assert.Equal(t, "77", string(key))
	assert.Equal(t, "t", msg.Topic)
}
