package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

// ErrUserNotFound signals a lookup that matched no user row.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken signals a registration with an already-used email.
var ErrEmailTaken = errors.New("email already registered")

// UserRepository owns user/profile rows.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// Search returns users matching query by display name, minus the excluded
// ids, paginated.
func (r *UserRepository) Search(ctx context.Context, query string, excluded []string, limit, offset int) ([]models.User, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.User{})
	if query != "" {
		q = q.Where("display_name ILIKE ?", "%"+query+"%")
	}
	if len(excluded) > 0 {
		q = q.Where("id NOT IN ?", excluded)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := q.Order("display_name ASC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	return res.RowsAffected, res.Error
}

// TouchLastSeen stamps the user's last activity; called from the auth
// middleware, best-effort.
func (r *UserRepository) TouchLastSeen(ctx context.Context, id string, at time.Time) error {
	return r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_seen_at", at).Error
}
