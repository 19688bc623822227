package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

// NotificationRepository implements notify.Store on Postgres.
type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification, ob *models.NotificationOutbox) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(n).Error; err != nil {
			return err
		}
		return tx.Create(ob).Error
	})
}

func (r *NotificationRepository) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Notification
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&out).Error
	return out, total, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) PendingOutbox(ctx context.Context, batchSize int) ([]models.NotificationOutbox, error) {
	var list []models.NotificationOutbox
	err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error
	return list, err
}

func (r *NotificationRepository) MarkOutboxSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).
		Model(&models.NotificationOutbox{}).
		Where("id = ?", id).
		Update("status", 1).Error
}

func (r *NotificationRepository) MarkOutboxFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).
		Model(&models.NotificationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}
