package transactions

import (
	"context"
	"errors"

	categoriesdomain "fintrack-api/internal/domain/categories"
	transactionsdomain "fintrack-api/internal/domain/transactions"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(transactionsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) List(ctx context.Context, userID string, filter transactionsdomain.ListFilter, limit, offset int) ([]transactionsdomain.Transaction, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&transactionsdomain.Transaction{}).
		Where("user_id = ?", userID)
	if filter.StartDate != nil {
		query = query.Where("transaction_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("transaction_date <= ?", *filter.EndDate)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []transactionsdomain.Transaction
	if err := query.
		Order("transaction_date desc, created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *PostgresRepository) Recent(ctx context.Context, userID string, limit int) ([]transactionsdomain.Transaction, error) {
	var items []transactionsdomain.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("transaction_date desc, created_at desc").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, transactionID string) (*transactionsdomain.Transaction, error) {
	var transaction transactionsdomain.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, transactionID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, transactionsdomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *PostgresRepository) Create(ctx context.Context, transaction *transactionsdomain.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *PostgresRepository) Update(ctx context.Context, transaction *transactionsdomain.Transaction) error {
	return r.db.WithContext(ctx).
		Model(&transactionsdomain.Transaction{}).
		Where("id = ? AND user_id = ?", transaction.ID, transaction.UserID).
		Updates(map[string]interface{}{
			"category_id":      transaction.CategoryID,
			"type":             transaction.Type,
			"amount":           transaction.Amount,
			"transaction_date": transaction.TransactionDate,
			"description":      transaction.Description,
			"status":           transaction.Status,
			"updated_at":       transaction.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, transactionID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&transactionsdomain.Transaction{}, "user_id = ? AND id = ?", userID, transactionID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) GetCategoriesByIDs(ctx context.Context, userID string, categoryIDs []string) (map[string]categoriesdomain.Category, error) {
	result := make(map[string]categoriesdomain.Category, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return result, nil
	}

	var items []categoriesdomain.Category
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, categoryIDs).
		Find(&items).Error; err != nil {
		return nil, err
	}

	for _, category := range items {
		result[category.ID] = category
	}
	return result, nil
}

func (r *PostgresRepository) CreateAttachment(ctx context.Context, attachment *transactionsdomain.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *PostgresRepository) ListAttachmentsByTransactionIDs(ctx context.Context, transactionIDs []string) (map[string][]transactionsdomain.Attachment, error) {
	result := make(map[string][]transactionsdomain.Attachment, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return result, nil
	}

	var items []transactionsdomain.Attachment
	if err := r.db.WithContext(ctx).
		Where("transaction_id IN ?", transactionIDs).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}

	for _, attachment := range items {
		result[attachment.TransactionID] = append(result[attachment.TransactionID], attachment)
	}
	return result, nil
}

func (r *PostgresRepository) DeleteAttachmentsByTransactionID(ctx context.Context, transactionID string) error {
	return r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Delete(&transactionsdomain.Attachment{}).Error
}

func (r *PostgresRepository) DeleteAttachment(ctx context.Context, transactionID, attachmentID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&transactionsdomain.Attachment{}, "id = ? AND transaction_id = ?", attachmentID, transactionID)
	return result.RowsAffected > 0, result.Error
}
