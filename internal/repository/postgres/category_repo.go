package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

// CategoryRepository owns the activity-category lookup table.
type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// defaultCategories are seeded at startup; already-present names are left
// untouched.
var defaultCategories = []string{
	"running", "cycling", "swimming", "hiking", "football",
	"basketball", "tennis", "padel", "yoga", "gym",
}

func (r *CategoryRepository) Seed(ctx context.Context) error {
	cats := make([]models.Category, 0, len(defaultCategories))
	for _, name := range defaultCategories {
		cats = append(cats, models.Category{Name: name})
	}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&cats).Error
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&cats).Error
	return cats, err
}
