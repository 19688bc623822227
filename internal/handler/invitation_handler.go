package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gcoopmansS/Moovle-sub000/internal/activity"
	"github.com/gcoopmansS/Moovle-sub000/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// InviteInput lists the users to invite to an activity.
type InviteInput struct {
	UserIDs []string `json:"user_ids" binding:"required,min=1"`
}

// InvitationResponse describes one invitation addressed to the caller.
type InvitationResponse struct {
	ID        string          `json:"id"`
	Status    string          `json:"status" example:"pending"`
	Activity  InvitedActivity `json:"activity"`
	Inviter   UserSummary     `json:"inviter"`
	CreatedAt time.Time       `json:"created_at"`
}

// InvitedActivity is the activity snippet embedded in an invitation.
type InvitedActivity struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	StartsAt time.Time `json:"starts_at"`
	Status   string    `json:"status"`
}

// endregion

// InvitationHandler serves activity invitation endpoints.
type InvitationHandler struct {
	activities *activity.Service
	userh      *UserHandler
}

func NewInvitationHandler(activities *activity.Service, userh *UserHandler) *InvitationHandler {
	return &InvitationHandler{activities: activities, userh: userh}
}

func (h *InvitationHandler) response(c *gin.Context, inv *models.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:     inv.ID,
		Status: string(inv.Status),
		Activity: InvitedActivity{
			ID:       inv.Activity.ID,
			Title:    inv.Activity.Title,
			Category: inv.Activity.Category,
			StartsAt: inv.Activity.StartsAt,
			Status:   string(inv.Activity.Status),
		},
		Inviter:   h.userh.summary(c, &inv.Inviter),
		CreatedAt: inv.CreatedAt,
	}
}

// Create godoc
// @Summary      Invite users to an activity
// @Description  Organizer only. Self-invitations are skipped; inviting the same user twice is a no-op.
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Activity ID"
// @Param        input body InviteInput true "Users to invite"
// @Success      201  {object}  map[string]int
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /activities/{id}/invites [post]
func (h *InvitationHandler) Create(c *gin.Context) {
	var input InviteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invs, err := h.activities.Invite(c.Request.Context(), c.Param("id"), currentUserID(c), input.UserIDs)
	if err != nil {
		switch {
		case errors.Is(err, activity.ErrActivityNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		case errors.Is(err, activity.ErrNotOrganizer):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the organizer may send invitations"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send invitations"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invited": len(invs)})
}

// ListMine godoc
// @Summary      List my pending invitations
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]InvitationResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /invitations [get]
func (h *InvitationHandler) ListMine(c *gin.Context) {
	invs, err := h.activities.MyInvitations(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load invitations"})
		return
	}

	items := make([]InvitationResponse, 0, len(invs))
	for i := range invs {
		items = append(items, h.response(c, &invs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// Accept godoc
// @Summary      Accept an invitation
// @Description  Marks the invitation accepted and joins the activity in one step. Only the addressee may respond, and only while pending.
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Invitation ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  ErrorResponse
// @Router       /invitations/{id}/accept [post]
func (h *InvitationHandler) Accept(c *gin.Context) {
	if err := h.activities.AcceptInvitation(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		if errors.Is(err, activity.ErrInvitationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pending invitation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept invitation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation accepted"})
}

// Decline godoc
// @Summary      Decline an invitation
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Invitation ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  ErrorResponse
// @Router       /invitations/{id}/decline [post]
func (h *InvitationHandler) Decline(c *gin.Context) {
	if err := h.activities.DeclineInvitation(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		if errors.Is(err, activity.ErrInvitationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pending invitation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decline invitation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation declined"})
}

// Cancel godoc
// @Summary      Cancel an invitation
// @Description  Only the inviter may cancel, and only while the invitation is still pending.
// @Tags         invitations
// @Security     BearerAuth
// @Param        id path string true "Invitation ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /invitations/{id} [delete]
func (h *InvitationHandler) Cancel(c *gin.Context) {
	if err := h.activities.CancelInvitation(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		if errors.Is(err, activity.ErrInvitationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pending invitation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel invitation"})
		return
	}
	c.Status(http.StatusNoContent)
}
