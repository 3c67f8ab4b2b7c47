package handler

import (
	"log"
	"net/http"

	"anoa.com/unimanage/internal/modules/notice/dto"
	noticeService "anoa.com/unimanage/internal/modules/notice/service"
	"anoa.com/unimanage/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

type NoticeHandler struct {
	service     noticeService.NoticeService
	redisClient *redis.Client
	upgrader    websocket.Upgrader
}

// NewNoticeHandler accepts websocket upgrades from any origin in allowed;
// an empty list accepts every origin.
func NewNoticeHandler(service noticeService.NoticeService, redisClient *redis.Client, allowed []string) *NoticeHandler {
	origins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		origins[o] = true
	}

	return &NoticeHandler{
		service:     service,
		redisClient: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || origins[origin]
			},
		},
	}
}

func (h *NoticeHandler) GetNotices(c *gin.Context) {
	notices, err := h.service.GetNotices(c.Request.Context(), response.GetRole(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, notices)
}

func (h *NoticeHandler) CreateNotice(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateNoticeRequest
	if !response.BindJSON(c, &req) {
		return
	}

	notice, err := h.service.CreateNotice(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, notice)
}

func (h *NoticeHandler) UpdateNotice(c *gin.Context) {
	id, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateNoticeRequest
	if !response.BindJSON(c, &req) {
		return
	}

	notice, err := h.service.UpdateNotice(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, notice)
}

func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	id, ok := response.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteNotice(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Stream relays newly published notices the caller may read over a websocket.
func (h *NoticeHandler) Stream(c *gin.Context) {
	if h.redisClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live notices are unavailable"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[Notice] failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	pubsub := h.redisClient.Subscribe(ctx, noticeService.ChannelsFor(response.GetRole(c))...)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		log.Printf("[Notice] failed to subscribe: %v", err)
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

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("[Notice] failed to write to websocket: %v", err)
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
