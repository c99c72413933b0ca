package categories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the caller's categories sorted ascending by name, optionally
// restricted to a single type.
func (s *Service) List(ctx context.Context, userID string, categoryType *CategoryType) ([]Category, error) {
	if categoryType != nil && !categoryType.Valid() {
		return nil, ErrInvalidType
	}
	return s.repo.List(ctx, userID, categoryType)
}

func (s *Service) Get(ctx context.Context, userID, categoryID string) (*Category, error) {
	return s.repo.GetByID(ctx, userID, categoryID)
}

func (s *Service) Create(ctx context.Context, input CreateCategoryInput) (*Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !input.Type.Valid() {
		return nil, ErrInvalidType
	}

	now := time.Now().UTC()
	category := Category{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Name:        name,
		Description: input.Description,
		Icon:        input.Icon,
		Color:       input.Color,
		Type:        input.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}

	return &category, nil
}

// Update applies only the fields present in the input. The update timestamp is
// refreshed even when no field changed.
func (s *Service) Update(ctx context.Context, input UpdateCategoryInput) (*Category, error) {
	category, err := s.repo.GetByID(ctx, input.UserID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	if input.Name.Set {
		if input.Name.Value == nil || strings.TrimSpace(*input.Name.Value) == "" {
			return nil, ErrEmptyName
		}
		category.Name = strings.TrimSpace(*input.Name.Value)
	}
	if input.Description.Set {
		category.Description = input.Description.Value
	}
	if input.Icon.Set {
		category.Icon = input.Icon.Value
	}
	if input.Color.Set {
		category.Color = input.Color.Value
	}
	category.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// Delete removes the category. Transactions that reference it keep their rows;
// the database clears the reference.
func (s *Service) Delete(ctx context.Context, userID, categoryID string) error {
	deleted, err := s.repo.Delete(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	return nil
}

type defaultCategory struct {
	name         string
	description  string
	icon         string
	color        string
	categoryType CategoryType
}

var defaultCategories = []defaultCategory{
	{"Salary", "Monthly recurring", "payments", "emerald", TypeIncome},
	{"Freelance", "Project based", "work", "blue", TypeIncome},
	{"Dividends", "Investments", "monetization_on", "purple", TypeIncome},
	{"Refunds", "Returns & Adjustments", "undo", "yellow", TypeIncome},
	{"Rent", "Housing", "home", "rose", TypeExpense},
	{"Groceries", "Food & Supplies", "shopping_cart", "orange", TypeExpense},
	{"Utilities", "Bills & Services", "bolt", "cyan", TypeExpense},
	{"Entertainment", "Leisure", "movie", "pink", TypeExpense},
	{"Travel", "Vacation & Trips", "flight", "indigo", TypeExpense},
}

// SeedDefaults inserts the starter category set. It always inserts: calling it
// twice duplicates the rows.
func (s *Service) SeedDefaults(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	batch := make([]Category, 0, len(defaultCategories))
	for _, d := range defaultCategories {
		description := d.description
		icon := d.icon
		color := d.color
		batch = append(batch, Category{
			ID:          uuid.NewString(),
			UserID:      userID,
			Name:        d.name,
			Description: &description,
			Icon:        &icon,
			Color:       &color,
			Type:        d.categoryType,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	return s.repo.CreateBatch(ctx, batch)
}
