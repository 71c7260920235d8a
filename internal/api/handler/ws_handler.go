package handler

import (
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WsHandler 把用户的通知频道推送到 websocket 连接
type WsHandler struct {
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
}

// NewWsHandler 来源校验与 CORS 共用同一份白名单，不带 Origin 的非浏览器客户端直接放行
func NewWsHandler(allowOrigins []string) *WsHandler {
	return &WsHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || middleware.OriginAllowed(allowOrigins, origin)
			},
		},
		writeTimeout: 10 * time.Second,
	}
}

func (s *WsHandler) Connect(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	if userID == 0 {
		response.Error(c, service.ErrUnauthenticated)
		return
	}

	// 升级 Websocket
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.ErrorContext(c.Request.Context(), "websocket upgrade failed", "userID", userID, "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := consts.NotificationChannelKey + strconv.FormatUint(userID, 10)
	pubsub := redis.Subscribe(ctx, channel)
	defer func() {
		_ = pubsub.Close()
	}()

	log.Info("websocket connected", "userID", userID, "channel", channel)

	stopChan := make(chan struct{})

	// 读循环：监听客户端主动断开
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				close(stopChan)
				return
			}
		}
	}()

	// 写循环：监听 Redis 并推送至客户端
	redisCh := pubsub.Channel()
	for {
		select {
		case msg, ok := <-redisCh:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err = conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Warn("websocket push failed", "userID", userID, "err", err)
				return
			}
		case <-stopChan:
			log.Info("websocket disconnected", "userID", userID)
			return
		}
	}
}
