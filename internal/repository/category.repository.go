package repository

import (
	"context"
	"fmt"
	"strings"

	"blogcms/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository interface {
	ListAll(ctx context.Context) ([]models.Category, error)
	FindOrCreate(ctx context.Context, name string) (*models.Category, bool, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Category, error)
	Count(ctx context.Context) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) ListAll(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// FindOrCreate returns the category with exactly this (trimmed) name,
// inserting it when absent. The insert relies on the unique index, so
// concurrent callers with the same name end up with the same row. The bool
// reports whether this call created it.
func (r *categoryRepository) FindOrCreate(ctx context.Context, name string) (*models.Category, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrInvalidCategory
	}

	db := r.db.WithContext(ctx)
	category := models.Category{Name: name}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&category)
	if result.Error != nil {
		return nil, false, fmt.Errorf("insert category %q: %w", name, result.Error)
	}
	if result.RowsAffected == 1 && category.ID != 0 {
		return &category, true, nil
	}

	var existing models.Category
	if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, false, fmt.Errorf("find category %q: %w", name, err)
	}
	return &existing, false, nil
}

func (r *categoryRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(ids))
	if len(ids) == 0 {
		return categories, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}
