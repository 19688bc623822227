package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gcoopmansS/Moovle-sub000/internal/activity"
	"github.com/gcoopmansS/Moovle-sub000/internal/friendship"
	"github.com/gcoopmansS/Moovle-sub000/internal/models"
	"github.com/gcoopmansS/Moovle-sub000/internal/repository/postgres"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// ActivityInput defines the fields for creating or editing an activity.
type ActivityInput struct {
	Title           string   `json:"title" binding:"required" example:"Sunday Morning Run"`
	Description     string   `json:"description" example:"Easy 10k along the river"`
	Category        string   `json:"category" binding:"required" example:"running"`
	StartsAt        string   `json:"starts_at" binding:"required" example:"2026-09-07T09:00:00Z"`
	LocationLabel   string   `json:"location_label" example:"Ghent, Belgium"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
	Audience        string   `json:"audience" binding:"required" example:"all-friends"`
	MaxParticipants int      `json:"max_participants" binding:"required" example:"8"`
	Distance        string   `json:"distance" example:"10 km"`
	Duration        string   `json:"duration" example:"1h"`
}

// ActivityResponse is the full activity card.
type ActivityResponse struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description,omitempty"`
	Category        string        `json:"category"`
	StartsAt        time.Time     `json:"starts_at"`
	LocationLabel   string        `json:"location_label,omitempty"`
	Lat             *float64      `json:"lat,omitempty"`
	Lng             *float64      `json:"lng,omitempty"`
	Audience        string        `json:"audience"`
	MaxParticipants int           `json:"max_participants"`
	SpotsLeft       int           `json:"spots_left"`
	Distance        string        `json:"distance,omitempty"`
	Duration        string        `json:"duration,omitempty"`
	Status          string        `json:"status"`
	Organizer       UserSummary   `json:"organizer"`
	Joined          bool          `json:"joined"`
	Participants    []UserSummary `json:"participants,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// TransferInput names the new organizer.
type TransferInput struct {
	NewOwnerID string `json:"new_owner_id" binding:"required"`
}

// DecisionResponse is returned when a join or leave is refused.
type DecisionResponse struct {
	Allowed bool     `json:"allowed"`
	Reasons []string `json:"reasons"`
}

// endregion

// ActivityHandler serves the activity lifecycle endpoints.
type ActivityHandler struct {
	activities *activity.Service
	friends    *friendship.Service
	users      *postgres.UserRepository
	userh      *UserHandler
}

func NewActivityHandler(activities *activity.Service, friends *friendship.Service, users *postgres.UserRepository, userh *UserHandler) *ActivityHandler {
	return &ActivityHandler{activities: activities, friends: friends, users: users, userh: userh}
}

func audienceFor(v models.Visibility) string {
	switch v {
	case models.VisibilityPrivate:
		return activity.AudienceSpecificFriends
	case models.VisibilityPublic:
		return activity.AudiencePublic
	default:
		return activity.AudienceAllFriends
	}
}

// response builds the activity card. Participant cards are attached only
// when withParticipants is set; list views stay shallow.
func (h *ActivityHandler) response(c *gin.Context, a *models.Activity, participantIDs []string, viewerID string, withParticipants bool) ActivityResponse {
	joined := false
	for _, id := range participantIDs {
		if id == viewerID {
			joined = true
			break
		}
	}

	resp := ActivityResponse{
		ID:              a.ID,
		Title:           a.Title,
		Description:     a.Description,
		Category:        a.Category,
		StartsAt:        a.StartsAt,
		LocationLabel:   a.LocationLabel,
		Lat:             a.Lat,
		Lng:             a.Lng,
		Audience:        audienceFor(a.Visibility),
		MaxParticipants: a.MaxParticipants,
		SpotsLeft:       activity.SpotsLeft(a, len(participantIDs)),
		Distance:        a.Distance,
		Duration:        a.Duration,
		Status:          string(a.Status),
		Organizer:       h.userh.summary(c, &a.Creator),
		Joined:          joined,
		CreatedAt:       a.CreatedAt,
	}

	if withParticipants && len(participantIDs) > 0 {
		if users, err := h.users.GetByIDs(c.Request.Context(), participantIDs); err == nil {
			for i := range users {
				resp.Participants = append(resp.Participants, h.userh.summary(c, &users[i]))
			}
		}
	}
	return resp
}

func parseActivityInput(in ActivityInput) (activity.CreateInput, error) {
	startsAt, err := time.Parse(time.RFC3339, in.StartsAt)
	if err != nil {
		return activity.CreateInput{}, err
	}
	return activity.CreateInput{
		Title:           in.Title,
		Description:     in.Description,
		Category:        in.Category,
		StartsAt:        startsAt,
		LocationLabel:   in.LocationLabel,
		Lat:             in.Lat,
		Lng:             in.Lng,
		Audience:        in.Audience,
		MaxParticipants: in.MaxParticipants,
		Distance:        in.Distance,
		Duration:        in.Duration,
	}, nil
}

// Create godoc
// @Summary      Create an activity
// @Tags         activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ActivityInput true "Activity fields"
// @Success      201  {object}  ActivityResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /activities [post]
func (h *ActivityHandler) Create(c *gin.Context) {
	var input ActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in, err := parseActivityInput(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "starts_at must be an RFC 3339 timestamp"})
		return
	}

	viewerID := currentUserID(c)
	created, err := h.activities.Create(c.Request.Context(), viewerID, in)
	if err != nil {
		if errors.Is(err, activity.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create activity"})
		return
	}

	// Reload with the organizer association populated.
	full, participants, err := h.activities.Detail(c.Request.Context(), created.ID, viewerID, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load activity"})
		return
	}
	c.JSON(http.StatusCreated, h.response(c, full, participants, viewerID, false))
}

// Feed godoc
// @Summary      List upcoming visible activities
// @Description  Public activities, friends' activities, your own, and private ones you were invited to. Cancelled and started activities are excluded.
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number"
// @Param        limit query int false "Page size"
// @Success      200  {object}  map[string][]ActivityResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /activities [get]
func (h *ActivityHandler) Feed(c *gin.Context) {
	viewerID := currentUserID(c)
	page, limit := pageParams(c)

	edges, err := h.friends.ListEdges(c.Request.Context(), viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load relations"})
		return
	}

	friendIDs := friendship.FriendIDs(edges, viewerID)
	acts, err := h.activities.Feed(c.Request.Context(), viewerID, friendIDs, limit, (page-1)*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load feed"})
		return
	}

	items := make([]ActivityResponse, 0, len(acts))
	for i := range acts {
		_, participants, err := h.activities.Detail(c.Request.Context(), acts[i].ID, viewerID, friendIDs)
		if err != nil {
			continue
		}
		items = append(items, h.response(c, &acts[i], participants, viewerID, false))
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// Get godoc
// @Summary      Get an activity
// @Description  Visibility applies: public activities are open, friends-visibility needs a friendship with the organizer, private ones need an invitation or participation. Anything else is a 404.
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Activity ID"
// @Success      200  {object}  ActivityResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /activities/{id} [get]
func (h *ActivityHandler) Get(c *gin.Context) {
	viewerID := currentUserID(c)
	var friendIDs []string
	if viewerID != "" {
		if edges, err := h.friends.ListEdges(c.Request.Context(), viewerID); err == nil {
			friendIDs = friendship.FriendIDs(edges, viewerID)
		}
	}

	a, participants, err := h.activities.Detail(c.Request.Context(), c.Param("id"), viewerID, friendIDs)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}
	c.JSON(http.StatusOK, h.response(c, a, participants, viewerID, true))
}

// Update godoc
// @Summary      Edit an activity
// @Description  Organizer only.
// @Tags         activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Activity ID"
// @Param        input body ActivityInput true "Activity fields"
// @Success      200  {object}  ActivityResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /activities/{id} [put]
func (h *ActivityHandler) Update(c *gin.Context) {
	var input ActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in, err := parseActivityInput(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "starts_at must be an RFC 3339 timestamp"})
		return
	}

	viewerID := currentUserID(c)
	_, err = h.activities.Update(c.Request.Context(), c.Param("id"), viewerID, in)
	if err != nil {
		switch {
		case errors.Is(err, activity.ErrActivityNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		case errors.Is(err, activity.ErrNotOrganizer):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the organizer may edit this activity"})
		case errors.Is(err, activity.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update activity"})
		}
		return
	}

	full, participants, err := h.activities.Detail(c.Request.Context(), c.Param("id"), viewerID, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load activity"})
		return
	}
	c.JSON(http.StatusOK, h.response(c, full, participants, viewerID, false))
}

// Cancel godoc
// @Summary      Cancel an activity
// @Description  Organizer only. The activity stays in the system with cancelled status; participants are notified.
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Activity ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /activities/{id}/cancel [post]
func (h *ActivityHandler) Cancel(c *gin.Context) {
	err := h.activities.Cancel(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, activity.ErrActivityNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		case errors.Is(err, activity.ErrNotOrganizer):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the organizer may cancel this activity"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel activity"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Activity cancelled"})
}

// Transfer godoc
// @Summary      Transfer activity ownership
// @Description  Organizer only. The new organizer's participation row, if any, is removed since organizers are not participants.
// @Tags         activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Activity ID"
// @Param        input body TransferInput true "New organizer"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /activities/{id}/transfer [post]
func (h *ActivityHandler) Transfer(c *gin.Context) {
	var input TransferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.activities.Transfer(c.Request.Context(), c.Param("id"), currentUserID(c), input.NewOwnerID)
	if err != nil {
		switch {
		case errors.Is(err, activity.ErrActivityNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		case errors.Is(err, activity.ErrNotOrganizer):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the organizer may transfer this activity"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer activity"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ownership transferred"})
}

// Join godoc
// @Summary      Join an activity
// @Description  Refused with the full list of reasons when not allowed. Joining twice is a no-op.
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Activity ID"
// @Success      200  {object}  DecisionResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  DecisionResponse
// @Router       /activities/{id}/join [post]
func (h *ActivityHandler) Join(c *gin.Context) {
	decision, err := h.activities.Join(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		if errors.Is(err, activity.ErrActivityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join activity"})
		return
	}
	if !decision.Allowed {
		c.JSON(http.StatusConflict, DecisionResponse(decision))
		return
	}
	c.JSON(http.StatusOK, DecisionResponse(decision))
}

// Leave godoc
// @Summary      Leave an activity
// @Description  The organizer cannot leave; cancel or transfer instead.
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Activity ID"
// @Success      200  {object}  DecisionResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  DecisionResponse
// @Router       /activities/{id}/leave [post]
func (h *ActivityHandler) Leave(c *gin.Context) {
	decision, err := h.activities.Leave(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		if errors.Is(err, activity.ErrActivityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave activity"})
		return
	}
	if !decision.Allowed {
		c.JSON(http.StatusConflict, DecisionResponse(decision))
		return
	}
	c.JSON(http.StatusOK, DecisionResponse(decision))
}
