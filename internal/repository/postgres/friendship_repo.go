package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gcoopmansS/Moovle-sub000/internal/friendship"
	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

// FriendshipRepository implements friendship.Store on Postgres. The composite
// primary key on (user_a, user_b) is the uniqueness backstop for concurrent
// requests: of two racing inserts, exactly one succeeds and the other gets a
// duplicate-key violation that surfaces as friendship.ErrDuplicateEdge.
type FriendshipRepository struct {
	DB *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{DB: db}
}

func (r *FriendshipRepository) Insert(ctx context.Context, edge *models.Friendship) error {
	if err := r.DB.WithContext(ctx).Create(edge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return friendship.ErrDuplicateEdge
		}
		return err
	}
	return nil
}

func (r *FriendshipRepository) Accept(ctx context.Context, lo, hi, acceptor string) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("user_a = ? AND user_b = ? AND status = ? AND requested_by <> ?",
			lo, hi, models.StatusPending, acceptor).
		Update("status", models.StatusAccepted)
	return res.RowsAffected, res.Error
}

func (r *FriendshipRepository) DeletePending(ctx context.Context, lo, hi string) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("user_a = ? AND user_b = ? AND status = ?", lo, hi, models.StatusPending).
		Delete(&models.Friendship{})
	return res.RowsAffected, res.Error
}

func (r *FriendshipRepository) Replace(ctx context.Context, edge *models.Friendship) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_a = ? AND user_b = ?", edge.UserA, edge.UserB).
			Delete(&models.Friendship{}).Error; err != nil {
			return err
		}
		return tx.Create(edge).Error
	})
}

func (r *FriendshipRepository) Get(ctx context.Context, lo, hi string) (*models.Friendship, error) {
	var edge models.Friendship
	err := r.DB.WithContext(ctx).
		Where("user_a = ? AND user_b = ?", lo, hi).
		First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

func (r *FriendshipRepository) ListByUser(ctx context.Context, userID string) ([]models.Friendship, error) {
	var edges []models.Friendship
	err := r.DB.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Find(&edges).Error
	return edges, err
}
