package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gcoopmansS/Moovle-sub000/internal/friendship"
	"github.com/gcoopmansS/Moovle-sub000/internal/models"
	"github.com/gcoopmansS/Moovle-sub000/internal/repository/postgres"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// FriendRequestResponse describes one pending friend request.
type FriendRequestResponse struct {
	User      UserSummary `json:"user"`
	Direction string      `json:"direction" example:"incoming"`
	CreatedAt time.Time   `json:"created_at"`
}

// endregion

// FriendHandler serves friendship endpoints.
type FriendHandler struct {
	friends *friendship.Service
	users   *postgres.UserRepository
	userh   *UserHandler
}

func NewFriendHandler(friends *friendship.Service, users *postgres.UserRepository, userh *UserHandler) *FriendHandler {
	return &FriendHandler{friends: friends, users: users, userh: userh}
}

// summaries resolves a set of user ids into user cards, keyed by id.
func (h *FriendHandler) summaries(c *gin.Context, ids []string) (map[string]UserSummary, error) {
	users, err := h.users.GetByIDs(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]UserSummary, len(users))
	for i := range users {
		out[users[i].ID] = h.userh.summary(c, &users[i])
	}
	return out, nil
}

// SendRequest godoc
// @Summary      Send a friend request
// @Description  Idempotent: repeating a send, or sending after an edge already exists, succeeds without change.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Target user ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Router       /users/{id}/request [post]
func (h *FriendHandler) SendRequest(c *gin.Context) {
	_, err := h.friends.SendRequest(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, friendship.ErrInvalidPair) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send a request to yourself"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send friend request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend request sent"})
}

// AcceptRequest godoc
// @Summary      Accept a pending friend request
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Requesting user ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/accept [post]
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	if err := h.friends.AcceptRequest(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		if errors.Is(err, friendship.ErrRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending request from this user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend request accepted"})
}

// DeclineRequest godoc
// @Summary      Decline a pending friend request
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Requesting user ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/decline [post]
func (h *FriendHandler) DeclineRequest(c *gin.Context) {
	if err := h.friends.DeclineRequest(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		if errors.Is(err, friendship.ErrRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending request from this user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decline request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend request declined"})
}

// BlockUser godoc
// @Summary      Block a user
// @Description  Replaces any existing relationship. Blocking is terminal.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID to block"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Router       /users/{id}/block [post]
func (h *FriendHandler) BlockUser(c *gin.Context) {
	if err := h.friends.BlockUser(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		if errors.Is(err, friendship.ErrInvalidPair) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot block yourself"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to block user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User blocked"})
}

// ListFriends godoc
// @Summary      List accepted friends
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]UserSummary
// @Failure      500  {object}  ErrorResponse
// @Router       /users/me/friends [get]
func (h *FriendHandler) ListFriends(c *gin.Context) {
	viewerID := currentUserID(c)
	edges, err := h.friends.ListEdges(c.Request.Context(), viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load friends"})
		return
	}

	ids := friendship.FriendIDs(edges, viewerID)
	cards, err := h.summaries(c, ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load friends"})
		return
	}

	friends := make([]UserSummary, 0, len(ids))
	for _, id := range ids {
		if card, ok := cards[id]; ok {
			friends = append(friends, card)
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": friends})
}

// ListRequests godoc
// @Summary      List pending friend requests
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        direction query string false "incoming (default) or outgoing"
// @Success      200  {object}  map[string][]FriendRequestResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/me/requests [get]
func (h *FriendHandler) ListRequests(c *gin.Context) {
	viewerID := currentUserID(c)
	edges, err := h.friends.ListEdges(c.Request.Context(), viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load requests"})
		return
	}

	direction := c.DefaultQuery("direction", "incoming")
	var pending []models.Friendship
	if direction == "outgoing" {
		pending = friendship.OutgoingPending(edges, viewerID)
	} else {
		direction = "incoming"
		pending = friendship.IncomingPending(edges, viewerID)
	}

	ids := make([]string, 0, len(pending))
	for _, edge := range pending {
		ids = append(ids, edge.Other(viewerID))
	}
	cards, err := h.summaries(c, ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load requests"})
		return
	}

	requests := make([]FriendRequestResponse, 0, len(pending))
	for _, edge := range pending {
		card, ok := cards[edge.Other(viewerID)]
		if !ok {
			continue
		}
		requests = append(requests, FriendRequestResponse{
			User:      card,
			Direction: direction,
			CreatedAt: edge.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": requests})
}
