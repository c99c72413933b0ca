package categories

import "time"

type CategoryType string

const (
	TypeIncome  CategoryType = "income"
	TypeExpense CategoryType = "expense"
)

func (t CategoryType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

type Category struct {
	ID          string       `gorm:"type:uuid;primaryKey"`
	UserID      string       `gorm:"index;not null"`
	Name        string       `gorm:"not null"`
	Description *string      `gorm:"type:text"`
	Icon        *string      `gorm:"type:text"`
	Color       *string      `gorm:"type:text"`
	Type        CategoryType `gorm:"type:category_type;not null"`
	CreatedAt   time.Time    `gorm:"autoCreateTime"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime"`
}

type CreateCategoryInput struct {
	UserID      string
	Name        string
	Description *string
	Icon        *string
	Color       *string
	Type        CategoryType
}

// OptionalString distinguishes "field absent from the request" (Set=false) from
// "field present", where a nil Value clears the column.
type OptionalString struct {
	Set   bool
	Value *string
}

type UpdateCategoryInput struct {
	UserID      string
	CategoryID  string
	Name        OptionalString
	Description OptionalString
	Icon        OptionalString
	Color       OptionalString
}
