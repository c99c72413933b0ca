package categories

import "context"

type Repository interface {
	List(ctx context.Context, userID string, categoryType *CategoryType) ([]Category, error)
	GetByID(ctx context.Context, userID, categoryID string) (*Category, error)
	Create(ctx context.Context, category *Category) error
	CreateBatch(ctx context.Context, categories []Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, userID, categoryID string) (bool, error)
}
