package transactions

import (
	"context"
	"time"

	"fintrack-api/internal/domain/categories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultPage        = 1
	defaultLimit       = 10
	defaultRecentLimit = 5
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of the caller's transactions, newest first, each with its
// category and attachments. The total is computed by a separate count query.
func (s *Service) List(ctx context.Context, userID string, filter ListFilter) (*Page, error) {
	page := filter.Page
	if page < 1 {
		page = defaultPage
	}
	limit := filter.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	offset := (page - 1) * limit

	items, total, err := s.repo.List(ctx, userID, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	details, err := s.loadDetails(ctx, userID, items, true)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &Page{
		Items: details,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// Recent returns the newest transactions for the dashboard. It ignores the
// list filters and does not load attachments.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]TransactionDetail, error) {
	if limit < 1 {
		limit = defaultRecentLimit
	}

	items, err := s.repo.Recent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	return s.loadDetails(ctx, userID, items, false)
}

func (s *Service) Get(ctx context.Context, userID, transactionID string) (*TransactionDetail, error) {
	transaction, err := s.repo.GetByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	details, err := s.loadDetails(ctx, userID, []Transaction{*transaction}, true)
	if err != nil {
		return nil, err
	}

	return &details[0], nil
}

func (s *Service) Create(ctx context.Context, input CreateTransactionInput) (*TransactionDetail, error) {
	if !input.Type.Valid() {
		return nil, ErrInvalidType
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}

	status := StatusApproved
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		status = *input.Status
	}

	if err := s.checkCategory(ctx, input.UserID, input.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transaction := Transaction{
		ID:              uuid.NewString(),
		UserID:          input.UserID,
		CategoryID:      input.CategoryID,
		Type:            input.Type,
		Amount:          input.Amount,
		TransactionDate: input.TransactionDate,
		Description:     input.Description,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, &transaction); err != nil {
		return nil, err
	}

	details, err := s.loadDetails(ctx, input.UserID, []Transaction{transaction}, true)
	if err != nil {
		return nil, err
	}

	return &details[0], nil
}

// Update applies only the fields present in the input. CategoryID is nullable:
// an explicit null clears the reference. The update timestamp always moves.
func (s *Service) Update(ctx context.Context, input UpdateTransactionInput) (*TransactionDetail, error) {
	transaction, err := s.repo.GetByID(ctx, input.UserID, input.TransactionID)
	if err != nil {
		return nil, err
	}

	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, ErrInvalidType
		}
		transaction.Type = *input.Type
	}
	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
		transaction.Amount = *input.Amount
	}
	if input.TransactionDate != nil {
		transaction.TransactionDate = *input.TransactionDate
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		transaction.Status = *input.Status
	}
	if input.Description.Set {
		transaction.Description = input.Description.Value
	}
	if input.CategoryID.Set {
		if err := s.checkCategory(ctx, input.UserID, input.CategoryID.Value); err != nil {
			return nil, err
		}
		transaction.CategoryID = input.CategoryID.Value
	}
	transaction.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, transaction); err != nil {
		return nil, err
	}

	details, err := s.loadDetails(ctx, input.UserID, []Transaction{*transaction}, true)
	if err != nil {
		return nil, err
	}

	return &details[0], nil
}

// Delete removes the transaction and its attachments in one database
// transaction: attachments go first so the foreign key never blocks the row.
func (s *Service) Delete(ctx context.Context, userID, transactionID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.DeleteAttachmentsByTransactionID(ctx, transactionID); err != nil {
			return err
		}

		deleted, err := tx.Delete(ctx, userID, transactionID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrTransactionNotFound
		}
		return nil
	})
}

// AddAttachment stores a pointer to an externally uploaded file. The parent
// transaction must belong to the caller.
func (s *Service) AddAttachment(ctx context.Context, input AddAttachmentInput) (*Attachment, error) {
	if _, err := s.repo.GetByID(ctx, input.UserID, input.TransactionID); err != nil {
		return nil, err
	}

	attachment := Attachment{
		ID:            uuid.NewString(),
		TransactionID: input.TransactionID,
		FileName:      input.FileName,
		FileURL:       input.FileURL,
		MimeType:      input.MimeType,
		FileSize:      input.FileSize,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.CreateAttachment(ctx, &attachment); err != nil {
		return nil, err
	}

	return &attachment, nil
}

func (s *Service) DeleteAttachment(ctx context.Context, userID, transactionID, attachmentID string) error {
	if _, err := s.repo.GetByID(ctx, userID, transactionID); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteAttachment(ctx, transactionID, attachmentID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrAttachmentNotFound
	}
	return nil
}

func (s *Service) checkCategory(ctx context.Context, userID string, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	found, err := s.repo.GetCategoriesByIDs(ctx, userID, []string{*categoryID})
	if err != nil {
		return err
	}
	if _, ok := found[*categoryID]; !ok {
		return categories.ErrCategoryNotFound
	}
	return nil
}

func (s *Service) loadDetails(ctx context.Context, userID string, items []Transaction, withAttachments bool) ([]TransactionDetail, error) {
	details := make([]TransactionDetail, 0, len(items))
	if len(items) == 0 {
		return details, nil
	}

	categoryIDs := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	transactionIDs := make([]string, 0, len(items))
	for _, item := range items {
		transactionIDs = append(transactionIDs, item.ID)
		if item.CategoryID == nil {
			continue
		}
		if _, ok := seen[*item.CategoryID]; ok {
			continue
		}
		seen[*item.CategoryID] = struct{}{}
		categoryIDs = append(categoryIDs, *item.CategoryID)
	}

	categoriesByID, err := s.repo.GetCategoriesByIDs(ctx, userID, categoryIDs)
	if err != nil {
		return nil, err
	}

	attachmentsByTransaction := map[string][]Attachment{}
	if withAttachments {
		attachmentsByTransaction, err = s.repo.ListAttachmentsByTransactionIDs(ctx, transactionIDs)
		if err != nil {
			return nil, err
		}
	}

	for _, item := range items {
		detail := TransactionDetail{Transaction: item}
		if item.CategoryID != nil {
			if category, ok := categoriesByID[*item.CategoryID]; ok {
				categoryCopy := category
				detail.Category = &categoryCopy
			}
		}
		if withAttachments {
			attachments := attachmentsByTransaction[item.ID]
			if attachments == nil {
				attachments = []Attachment{}
			}
			detail.Attachments = attachments
		}
		details = append(details, detail)
	}

	return details, nil
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return ErrInvalidAmount
	}
	return nil
}
