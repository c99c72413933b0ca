package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	categoriesdomain "fintrack-api/internal/domain/categories"
	"fintrack-api/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type categoryResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Icon        *string   `json:"icon"`
	Color       *string   `json:"color"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toCategoryResponse(category categoriesdomain.Category) categoryResponse {
	return categoryResponse{
		ID:          category.ID,
		UserID:      category.UserID,
		Name:        category.Name,
		Description: category.Description,
		Icon:        category.Icon,
		Color:       category.Color,
		Type:        string(category.Type),
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

type createCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	Type        string  `json:"type"`
}

type updateCategoryRequest struct {
	Name        optionalString `json:"name"`
	Description optionalString `json:"description"`
	Icon        optionalString `json:"icon"`
	Color       optionalString `json:"color"`
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var categoryType *categoriesdomain.CategoryType
	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		parsed := categoriesdomain.CategoryType(raw)
		if !parsed.Valid() {
			writeError(w, http.StatusBadRequest, "Type must be 'income' or 'expense'")
			return
		}
		categoryType = &parsed
	}

	items, err := h.Categories.List(r.Context(), userID, categoryType)
	if err != nil {
		h.log.InternalError("categories.list: list failed", err, "user_id", userID)
		h.writeInternal(w, "Failed to fetch categories", err)
		return
	}

	response := make([]categoryResponse, 0, len(items))
	for _, category := range items {
		response = append(response, toCategoryResponse(category))
	}

	writeData(w, http.StatusOK, response)
}

func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	categoryID := strings.TrimSpace(chi.URLParam(r, "id"))

	category, err := h.Categories.Get(r.Context(), userID, categoryID)
	if err != nil {
		if errors.Is(err, categoriesdomain.ErrCategoryNotFound) {
			writeError(w, http.StatusNotFound, "Category not found")
			return
		}
		h.log.InternalError("categories.get: get failed", err, "user_id", userID, "category_id", categoryID)
		h.writeInternal(w, "Failed to fetch category", err)
		return
	}

	writeData(w, http.StatusOK, toCategoryResponse(*category))
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Type) == "" {
		writeError(w, http.StatusBadRequest, "Name and type are required")
		return
	}

	categoryType := categoriesdomain.CategoryType(req.Type)
	if !categoryType.Valid() {
		writeError(w, http.StatusBadRequest, "Type must be 'income' or 'expense'")
		return
	}

	created, err := h.Categories.Create(r.Context(), categoriesdomain.CreateCategoryInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		Type:        categoryType,
	})
	if err != nil {
		if errors.Is(err, categoriesdomain.ErrEmptyName) {
			writeError(w, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		h.log.InternalError("categories.create: create failed", err, "user_id", userID)
		h.writeInternal(w, "Failed to create category", err)
		return
	}

	writeData(w, http.StatusCreated, toCategoryResponse(*created))
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	categoryID := strings.TrimSpace(chi.URLParam(r, "id"))

	var req updateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Name.Set && (req.Name.Value == nil || strings.TrimSpace(*req.Name.Value) == "") {
		writeError(w, http.StatusBadRequest, "Name cannot be empty")
		return
	}

	updated, err := h.Categories.Update(r.Context(), categoriesdomain.UpdateCategoryInput{
		UserID:      userID,
		CategoryID:  categoryID,
		Name:        categoriesdomain.OptionalString{Set: req.Name.Set, Value: req.Name.Value},
		Description: categoriesdomain.OptionalString{Set: req.Description.Set, Value: req.Description.Value},
		Icon:        categoriesdomain.OptionalString{Set: req.Icon.Set, Value: req.Icon.Value},
		Color:       categoriesdomain.OptionalString{Set: req.Color.Set, Value: req.Color.Value},
	})
	if err != nil {
		if errors.Is(err, categoriesdomain.ErrCategoryNotFound) {
			writeError(w, http.StatusNotFound, "Category not found")
			return
		}
		if errors.Is(err, categoriesdomain.ErrEmptyName) {
			writeError(w, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		h.log.InternalError("categories.update: update failed", err, "user_id", userID, "category_id", categoryID)
		h.writeInternal(w, "Failed to update category", err)
		return
	}

	writeData(w, http.StatusOK, toCategoryResponse(*updated))
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	categoryID := strings.TrimSpace(chi.URLParam(r, "id"))

	if err := h.Categories.Delete(r.Context(), userID, categoryID); err != nil {
		if errors.Is(err, categoriesdomain.ErrCategoryNotFound) {
			writeError(w, http.StatusNotFound, "Category not found")
			return
		}
		h.log.InternalError("categories.delete: delete failed", err, "user_id", userID, "category_id", categoryID)
		h.writeInternal(w, "Failed to delete category", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}

func (h *Handlers) SeedCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.Categories.SeedDefaults(r.Context(), userID); err != nil {
		h.log.InternalError("categories.seed: seed failed", err, "user_id", userID)
		h.writeInternal(w, "Failed to seed categories", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Default categories created"})
}
