package categories

import (
	"context"
	"errors"

	categoriesdomain "fintrack-api/internal/domain/categories"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string, categoryType *categoriesdomain.CategoryType) ([]categoriesdomain.Category, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name asc")
	if categoryType != nil {
		query = query.Where("type = ?", *categoryType)
	}

	var items []categoriesdomain.Category
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, categoryID string) (*categoriesdomain.Category, error) {
	var category categoriesdomain.Category
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, categoryID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, categoriesdomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) Create(ctx context.Context, category *categoriesdomain.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *PostgresRepository) CreateBatch(ctx context.Context, categories []categoriesdomain.Category) error {
	if len(categories) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&categories).Error
}

func (r *PostgresRepository) Update(ctx context.Context, category *categoriesdomain.Category) error {
	return r.db.WithContext(ctx).
		Model(&categoriesdomain.Category{}).
		Where("id = ? AND user_id = ?", category.ID, category.UserID).
		Updates(map[string]interface{}{
			"name":        category.Name,
			"description": category.Description,
			"icon":        category.Icon,
			"color":       category.Color,
			"updated_at":  category.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, categoryID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&categoriesdomain.Category{}, "user_id = ? AND id = ?", userID, categoryID)
	return result.RowsAffected > 0, result.Error
}
