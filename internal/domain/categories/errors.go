package categories

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidType      = errors.New("category type must be income or expense")
	ErrEmptyName        = errors.New("category name cannot be empty")
)
