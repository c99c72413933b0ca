package categories

import (
	"context"
	"errors"
	"sort"
	"testing"
)

type fakeCategoriesRepo struct {
	categories map[string]*Category
}

func newFakeCategoriesRepo() *fakeCategoriesRepo {
	return &fakeCategoriesRepo{categories: make(map[string]*Category)}
}

func (r *fakeCategoriesRepo) List(ctx context.Context, userID string, categoryType *CategoryType) ([]Category, error) {
	result := make([]Category, 0)
	for _, category := range r.categories {
		if category.UserID != userID {
			continue
		}
		if categoryType != nil && category.Type != *categoryType {
			continue
		}
		result = append(result, *category)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *fakeCategoriesRepo) GetByID(ctx context.Context, userID, categoryID string) (*Category, error) {
	category, ok := r.categories[categoryID]
	if !ok || category.UserID != userID {
		return nil, ErrCategoryNotFound
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCategoriesRepo) Create(ctx context.Context, category *Category) error {
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoriesRepo) CreateBatch(ctx context.Context, categories []Category) error {
	for i := range categories {
		category := categories[i]
		r.categories[category.ID] = &category
	}
	return nil
}

func (r *fakeCategoriesRepo) Update(ctx context.Context, category *Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return ErrCategoryNotFound
	}
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoriesRepo) Delete(ctx context.Context, userID, categoryID string) (bool, error) {
	category, ok := r.categories[categoryID]
	if !ok || category.UserID != userID {
		return false, nil
	}
	delete(r.categories, categoryID)
	return true, nil
}

func strPtr(s string) *string { return &s }

func TestCreateCategorySuccess(t *testing.T) {
	repo := newFakeCategoriesRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateCategoryInput{
		UserID: "user-1",
		Name:   "  Groceries  ",
		Type:   TypeExpense,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Name != "Groceries" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if repo.categories[created.ID] == nil {
		t.Fatalf("category not stored")
	}
}

func TestCreateCategoryEmptyName(t *testing.T) {
	svc := NewService(newFakeCategoriesRepo())

	_, err := svc.Create(context.Background(), CreateCategoryInput{
		UserID: "user-1",
		Name:   "   ",
		Type:   TypeExpense,
	})
	if !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestCreateCategoryInvalidType(t *testing.T) {
	svc := NewService(newFakeCategoriesRepo())

	_, err := svc.Create(context.Background(), CreateCategoryInput{
		UserID: "user-1",
		Name:   "Groceries",
		Type:   CategoryType("savings"),
	})
	if !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestListCategoriesFiltersByTypeAndUser(t *testing.T) {
	repo := newFakeCategoriesRepo()
	repo.categories["cat-1"] = &Category{ID: "cat-1", UserID: "user-1", Name: "Salary", Type: TypeIncome}
	repo.categories["cat-2"] = &Category{ID: "cat-2", UserID: "user-1", Name: "Rent", Type: TypeExpense}
	repo.categories["cat-3"] = &Category{ID: "cat-3", UserID: "user-2", Name: "Bonus", Type: TypeIncome}
	svc := NewService(repo)

	income := TypeIncome
	result, err := svc.List(context.Background(), "user-1", &income)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result) != 1 || result[0].ID != "cat-1" {
		t.Fatalf("expected only user-1 income category, got %+v", result)
	}
}

func TestListCategoriesInvalidType(t *testing.T) {
	svc := NewService(newFakeCategoriesRepo())

	bad := CategoryType("savings")
	_, err := svc.List(context.Background(), "user-1", &bad)
	if !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestUpdateCategoryPartialFields(t *testing.T) {
	repo := newFakeCategoriesRepo()
	repo.categories["cat-1"] = &Category{
		ID:     "cat-1",
		UserID: "user-1",
		Name:   "Rent",
		Icon:   strPtr("home"),
		Type:   TypeExpense,
	}
	svc := NewService(repo)

	updated, err := svc.Update(context.Background(), UpdateCategoryInput{
		UserID:     "user-1",
		CategoryID: "cat-1",
		Name:       OptionalString{Set: true, Value: strPtr("Housing")},
		Icon:       OptionalString{Set: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Name != "Housing" {
		t.Fatalf("expected name updated, got %q", updated.Name)
	}
	if updated.Icon != nil {
		t.Fatalf("expected icon cleared, got %v", *updated.Icon)
	}
	if updated.Color != nil {
		t.Fatalf("expected untouched color to stay nil")
	}
}

func TestUpdateCategoryEmptyName(t *testing.T) {
	repo := newFakeCategoriesRepo()
	repo.categories["cat-1"] = &Category{ID: "cat-1", UserID: "user-1", Name: "Rent", Type: TypeExpense}
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), UpdateCategoryInput{
		UserID:     "user-1",
		CategoryID: "cat-1",
		Name:       OptionalString{Set: true, Value: strPtr("  ")},
	})
	if !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if repo.categories["cat-1"].Name != "Rent" {
		t.Fatalf("expected name untouched, got %q", repo.categories["cat-1"].Name)
	}
}

func TestUpdateCategoryNotFound(t *testing.T) {
	svc := NewService(newFakeCategoriesRepo())

	_, err := svc.Update(context.Background(), UpdateCategoryInput{
		UserID:     "user-1",
		CategoryID: "missing",
	})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestDeleteCategoryScopedToUser(t *testing.T) {
	repo := newFakeCategoriesRepo()
	repo.categories["cat-1"] = &Category{ID: "cat-1", UserID: "user-2", Name: "Rent", Type: TypeExpense}
	svc := NewService(repo)

	err := svc.Delete(context.Background(), "user-1", "cat-1")
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if repo.categories["cat-1"] == nil {
		t.Fatalf("other user's category must survive")
	}
}

func TestSeedDefaultsAlwaysInserts(t *testing.T) {
	repo := newFakeCategoriesRepo()
	svc := NewService(repo)

	if err := svc.SeedDefaults(context.Background(), "user-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.categories) != 9 {
		t.Fatalf("expected 9 seeded categories, got %d", len(repo.categories))
	}

	if err := svc.SeedDefaults(context.Background(), "user-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.categories) != 18 {
		t.Fatalf("expected duplicate seed to insert again, got %d", len(repo.categories))
	}
}
