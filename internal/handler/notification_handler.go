package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gcoopmansS/Moovle-sub000/internal/hub"
	"github.com/gcoopmansS/Moovle-sub000/internal/models"
	"github.com/gcoopmansS/Moovle-sub000/internal/notify"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// NotificationResponse is one inbox entry.
type NotificationResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type" example:"friend_request"`
	Payload   json.RawMessage `json:"payload"`
	IsRead    bool            `json:"is_read"`
	CreatedAt time.Time       `json:"created_at"`
}

// endregion

// NotificationHandler serves the notification inbox and live stream.
type NotificationHandler struct {
	notifications *notify.Service
}

func NewNotificationHandler(notifications *notify.Service) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func notificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Payload:   json.RawMessage(n.Payload),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// List godoc
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread query bool false "Only unread"
// @Param        page query int false "Page number"
// @Param        limit query int false "Page size"
// @Success      200  {object}  PaginatedResponse[NotificationResponse]
// @Failure      500  {object}  ErrorResponse
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	unreadOnly := c.Query("unread") == "true"

	notifs, total, err := h.notifications.List(c.Request.Context(), currentUserID(c), unreadOnly, limit, (page-1)*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}

	items := make([]NotificationResponse, 0, len(notifs))
	for i := range notifs {
		items = append(items, notificationResponse(&notifs[i]))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(items, total, page, limit))
}

// MarkRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notifications.MarkRead(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		if errors.Is(err, notify.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// Stream godoc
// @Summary      Stream notifications over SSE
// @Description  Long-lived server-sent events connection pushing new notifications as they are created.
// @Tags         notifications
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Router       /notifications/stream [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	userID := currentUserID(c)

	client := make(hub.Client, 16)
	h.notifications.Hub().Subscribe(userID, client)
	defer h.notifications.Hub().Unsubscribe(userID, client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	// Heartbeat keeps intermediaries from closing an idle stream.
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("notification", string(msg))
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", "")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
