package transactions

import (
	"context"

	"fintrack-api/internal/domain/categories"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, userID string, filter ListFilter, limit, offset int) ([]Transaction, int64, error)
	Recent(ctx context.Context, userID string, limit int) ([]Transaction, error)
	GetByID(ctx context.Context, userID, transactionID string) (*Transaction, error)
	Create(ctx context.Context, transaction *Transaction) error
	Update(ctx context.Context, transaction *Transaction) error
	Delete(ctx context.Context, userID, transactionID string) (bool, error)
	GetCategoriesByIDs(ctx context.Context, userID string, categoryIDs []string) (map[string]categories.Category, error)
	CreateAttachment(ctx context.Context, attachment *Attachment) error
	ListAttachmentsByTransactionIDs(ctx context.Context, transactionIDs []string) (map[string][]Attachment, error)
	DeleteAttachmentsByTransactionID(ctx context.Context, transactionID string) error
	DeleteAttachment(ctx context.Context, transactionID, attachmentID string) (bool, error)
}
