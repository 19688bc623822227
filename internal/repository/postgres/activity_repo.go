package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gcoopmansS/Moovle-sub000/internal/activity"
	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

// ActivityRepository implements activity.Store on Postgres.
type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

// InTx runs fn against a repository bound to one transaction.
func (r *ActivityRepository) InTx(ctx context.Context, fn func(activity.Store) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ActivityRepository{DB: tx})
	})
}

func (r *ActivityRepository) CreateActivity(ctx context.Context, a *models.Activity) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *ActivityRepository) GetActivity(ctx context.Context, id string) (*models.Activity, error) {
	var a models.Activity
	err := r.DB.WithContext(ctx).Preload("Creator").First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, activity.ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ActivityRepository) SaveActivity(ctx context.Context, a *models.Activity) error {
	return r.DB.WithContext(ctx).Save(a).Error
}

func (r *ActivityRepository) SetStatus(ctx context.Context, id, creatorID string, status models.ActivityStatus) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Activity{}).
		Where("id = ? AND creator_id = ?", id, creatorID).
		Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *ActivityRepository) TransferOwner(ctx context.Context, id, creatorID, newOwnerID string) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Activity{}).
		Where("id = ? AND creator_id = ?", id, creatorID).
		Update("creator_id", newOwnerID)
	return res.RowsAffected, res.Error
}

func (r *ActivityRepository) ParticipantIDs(ctx context.Context, activityID string) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).
		Model(&models.Participation{}).
		Where("activity_id = ?", activityID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *ActivityRepository) AddParticipant(ctx context.Context, activityID, userID string) error {
	p := models.Participation{
		ActivityID: activityID,
		UserID:     userID,
		Status:     models.ParticipationJoined,
	}
	if err := r.DB.WithContext(ctx).Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return activity.ErrDuplicateParticipation
		}
		return err
	}
	return nil
}

func (r *ActivityRepository) RemoveParticipant(ctx context.Context, activityID, userID string) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("activity_id = ? AND user_id = ?", activityID, userID).
		Delete(&models.Participation{})
	return res.RowsAffected, res.Error
}

func (r *ActivityRepository) CreateInvitations(ctx context.Context, invs []models.Invitation) error {
	// The service filters out already invited users first; the unique index
	// on (activity_id, invited_user_id) stays as a race guard.
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&invs).Error
}

func (r *ActivityRepository) InvitedUserIDs(ctx context.Context, activityID string) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("activity_id = ?", activityID).
		Pluck("invited_user_id", &ids).Error
	return ids, err
}

func (r *ActivityRepository) ListInvitations(ctx context.Context, userID string) ([]models.Invitation, error) {
	var invs []models.Invitation
	err := r.DB.WithContext(ctx).
		Preload("Activity").
		Preload("Inviter").
		Where("invited_user_id = ? AND status = ?", userID, models.InvitationPending).
		Order("created_at DESC").
		Find(&invs).Error
	return invs, err
}

func (r *ActivityRepository) RespondInvitation(ctx context.Context, id, responderID string, status models.InvitationStatus, respondedAt time.Time) (*models.Invitation, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ? AND invited_user_id = ? AND status = ?", id, responderID, models.InvitationPending).
		Updates(map[string]any{"status": status, "responded_at": respondedAt})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, activity.ErrInvitationNotFound
	}

	var inv models.Invitation
	if err := r.DB.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *ActivityRepository) DeleteInvitation(ctx context.Context, id, inviterID string) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND invited_by = ? AND status = ?", id, inviterID, models.InvitationPending).
		Delete(&models.Invitation{})
	return res.RowsAffected, res.Error
}

func (r *ActivityRepository) Feed(ctx context.Context, viewerID string, friendIDs []string, after time.Time, limit, offset int) ([]models.Activity, error) {
	var acts []models.Activity

	q := r.DB.WithContext(ctx).
		Model(&models.Activity{}).
		Preload("Creator").
		Where("status = ? AND starts_at > ?", models.ActivityActive, after)

	visible := r.DB.
		Where("visibility = ?", models.VisibilityPublic).
		Or("creator_id = ?", viewerID).
		Or("id IN (?)", r.DB.Model(&models.Invitation{}).
			Select("activity_id").Where("invited_user_id = ?", viewerID)).
		Or("id IN (?)", r.DB.Model(&models.Participation{}).
			Select("activity_id").Where("user_id = ?", viewerID))
	if len(friendIDs) > 0 {
		visible = visible.Or("visibility = ? AND creator_id IN ?", models.VisibilityFriends, friendIDs)
	}

	err := q.Where(visible).
		Order("starts_at ASC").
		Limit(limit).Offset(offset).
		Find(&acts).Error
	return acts, err
}

// SweepExpiredInvitations deletes pending invitations whose activity has
// already started; they are no longer actionable (joining a started activity
// is disallowed anyway). Run by the scheduled job.
func (r *ActivityRepository) SweepExpiredInvitations(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("status = ? AND activity_id IN (?)", models.InvitationPending,
			r.DB.Model(&models.Activity{}).Select("id").Where("starts_at <= ?", now)).
		Delete(&models.Invitation{})
	return res.RowsAffected, res.Error
}
