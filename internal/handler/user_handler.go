package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gcoopmansS/Moovle-sub000/internal/friendship"
	"github.com/gcoopmansS/Moovle-sub000/internal/models"
	"github.com/gcoopmansS/Moovle-sub000/internal/profile"
	"github.com/gcoopmansS/Moovle-sub000/internal/repository/postgres"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// UserSummary is the compact user card shown across feeds and lists.
type UserSummary struct {
	ID             string `json:"id" example:"b4f9c3f2-7d67-4f3a-9f2a-1f2f3e4d5c6b"`
	DisplayName    string `json:"display_name" example:"Sam Walker"`
	Initials       string `json:"initials" example:"SW"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	OnlineRecently bool   `json:"online_recently"`
}

// PrivateUserResponse is the authenticated user's own profile.
type PrivateUserResponse struct {
	UserSummary
	Email         string   `json:"email" example:"sam@example.com"`
	LocationLabel string   `json:"location_label,omitempty" example:"Ghent, Belgium"`
	Lat           *float64 `json:"lat,omitempty"`
	Lng           *float64 `json:"lng,omitempty"`
}

// SearchUserResponse is a discovery search result.
type SearchUserResponse struct {
	UserSummary
	RequestPending bool `json:"request_pending"`
}

// UpdateProfileInput defines the editable profile fields.
type UpdateProfileInput struct {
	DisplayName   string   `json:"display_name" binding:"required" example:"Sam Walker"`
	LocationLabel string   `json:"location_label" example:"Ghent, Belgium"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
}

// endregion

// UserHandler serves profile and discovery endpoints.
type UserHandler struct {
	profiles *profile.Service
	users    *postgres.UserRepository
	friends  *friendship.Service
}

func NewUserHandler(profiles *profile.Service, users *postgres.UserRepository, friends *friendship.Service) *UserHandler {
	return &UserHandler{profiles: profiles, users: users, friends: friends}
}

func (h *UserHandler) summary(c *gin.Context, u *models.User) UserSummary {
	return UserSummary{
		ID:             u.ID,
		DisplayName:    u.DisplayName,
		Initials:       profile.Initials(u.DisplayName),
		AvatarURL:      h.profiles.AvatarURL(c.Request.Context(), u),
		OnlineRecently: profile.OnlineRecently(u.LastSeenAt, time.Now()),
	}
}

func (h *UserHandler) privateResponse(c *gin.Context, u *models.User) PrivateUserResponse {
	return PrivateUserResponse{
		UserSummary:   h.summary(c, u),
		Email:         u.Email,
		LocationLabel: u.LocationLabel,
		Lat:           u.Lat,
		Lng:           u.Lng,
	}
}

// TrackLastSeen updates the caller's last-seen timestamp. Failures are
// ignored; presence is best effort.
func (h *UserHandler) TrackLastSeen() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := currentUserID(c); userID != "" {
			_ = h.users.TouchLastSeen(c.Request.Context(), userID, time.Now())
		}
		c.Next()
	}
}

// GetMe godoc
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.profiles.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, h.privateResponse(c, user))
}

// UpdateMe godoc
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateProfileInput true "Profile fields"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.profiles.Update(c.Request.Context(), currentUserID(c), profile.UpdateInput{
		DisplayName:   input.DisplayName,
		LocationLabel: input.LocationLabel,
		Lat:           input.Lat,
		Lng:           input.Lng,
	})
	if err != nil {
		if errors.Is(err, profile.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, h.privateResponse(c, user))
}

// UploadAvatar godoc
// @Summary      Upload a profile avatar
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar formData file true "Avatar image"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /users/me/avatar [post]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read avatar file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar must be an image"})
		return
	}

	user, err := h.profiles.SetAvatar(c.Request.Context(), currentUserID(c), file, fileHeader.Size, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store avatar"})
		return
	}
	c.JSON(http.StatusOK, h.privateResponse(c, user))
}

// GetUserByID godoc
// @Summary      Get a user's public profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200  {object}  UserSummary
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	user, err := h.profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, h.summary(c, user))
}

// SearchUsers godoc
// @Summary      Search for users to befriend
// @Description  Name search excluding yourself, existing friends, blocked users and people who already sent you a request. Users you already invited stay visible, flagged request_pending.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Name fragment"
// @Param        page query int false "Page number"
// @Param        limit query int false "Page size"
// @Success      200  {object}  PaginatedResponse[SearchUserResponse]
// @Failure      500  {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	viewerID := currentUserID(c)
	page, limit := pageParams(c)

	edges, err := h.friends.ListEdges(c.Request.Context(), viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load relations"})
		return
	}
	exclusions := friendship.DiscoveryExclusions(edges, viewerID)
	excluded := make([]string, 0, len(exclusions))
	for id := range exclusions {
		excluded = append(excluded, id)
	}
	pendingTo := make(map[string]bool)
	for _, edge := range friendship.OutgoingPending(edges, viewerID) {
		pendingTo[edge.Other(viewerID)] = true
	}

	users, total, err := h.users.Search(c.Request.Context(), c.Query("q"), excluded, limit, (page-1)*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}

	results := make([]SearchUserResponse, 0, len(users))
	for i := range users {
		results = append(results, SearchUserResponse{
			UserSummary:    h.summary(c, &users[i]),
			RequestPending: pendingTo[users[i].ID],
		})
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(results, total, page, limit))
}
