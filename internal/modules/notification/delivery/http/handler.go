package handler

import (
	"net/http"
	"time"

	notification "anoa.com/skillnest/internal/modules/notification/service"
	commonDto "anoa.com/skillnest/pkg/dto"
	"anoa.com/skillnest/pkg/logger"
	"anoa.com/skillnest/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const pingInterval = 30 * time.Second

type NotificationHandler struct {
	service     notification.NotificationService
	redisClient *redis.Client
	upgrader    websocket.Upgrader
	log         *logger.Logger
}

// NewNotificationHandler accepts websocket upgrades from allowedOrigins; "*" or an empty list accepts any origin.
func NewNotificationHandler(service notification.NotificationService, redisClient *redis.Client, allowedOrigins []string, log *logger.Logger) *NotificationHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	_, allowAll := allowed["*"]

	return &NotificationHandler{
		service:     service,
		redisClient: redisClient,
		log:         log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowAll || len(allowed) == 0 {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	notifications, err := h.service.GetNotifications(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req commonDto.IDParam
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), userID, uuid.MustParse(req.ID)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked as read"})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// HandleWebSocket streams the user's notifications as they are published.
// Browsers cannot set headers on websocket requests, so the auth middleware also accepts ?token=.
func (h *NotificationHandler) HandleWebSocket(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if h.redisClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "realtime notifications are not available"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("failed to upgrade websocket", "error", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	pubsub := h.redisClient.Subscribe(ctx, notification.Channel(userID))
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		h.log.Warn("failed to subscribe to notification channel", "user_id", userID, "error", err)
		return
	}

	ch := pubsub.Channel()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				h.log.Debug("failed to write websocket message", "user_id", userID, "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
