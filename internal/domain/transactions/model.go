package transactions

import (
	"time"

	"fintrack-api/internal/domain/categories"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

type TransactionStatus string

const (
	StatusPending  TransactionStatus = "pending"
	StatusApproved TransactionStatus = "approved"
	StatusRejected TransactionStatus = "rejected"
)

func (s TransactionStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Transaction carries direction in Type; Amount is always non-negative.
type Transaction struct {
	ID              string            `gorm:"type:uuid;primaryKey"`
	UserID          string            `gorm:"index;not null"`
	CategoryID      *string           `gorm:"type:uuid;index"`
	Type            TransactionType   `gorm:"type:transaction_type;not null"`
	Amount          decimal.Decimal   `gorm:"type:numeric(12,2);not null"`
	TransactionDate time.Time         `gorm:"type:date;not null"`
	Description     *string           `gorm:"type:text"`
	Status          TransactionStatus `gorm:"type:transaction_status;not null;default:approved"`
	CreatedAt       time.Time         `gorm:"autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime"`
}

// Attachment is a pointer to an externally stored file; file bytes never pass
// through this system.
type Attachment struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	TransactionID string    `gorm:"type:uuid;index;not null"`
	FileName      string    `gorm:"column:file_name;not null"`
	FileURL       string    `gorm:"column:file_url;not null"`
	MimeType      *string   `gorm:"column:mime_type"`
	FileSize      *int64    `gorm:"column:file_size"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

type TransactionDetail struct {
	Transaction
	Category    *categories.Category
	Attachments []Attachment
}

type ListFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID string
	Type       *TransactionType
	Status     *TransactionStatus
	Page       int
	Limit      int
}

type Pagination struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

type Page struct {
	Items      []TransactionDetail
	Pagination Pagination
}

type CreateTransactionInput struct {
	UserID          string
	CategoryID      *string
	Type            TransactionType
	Amount          decimal.Decimal
	TransactionDate time.Time
	Description     *string
	Status          *TransactionStatus
}

// OptionalString distinguishes "field absent from the request" (Set=false) from
// "field present", where a nil Value clears the column.
type OptionalString struct {
	Set   bool
	Value *string
}

type UpdateTransactionInput struct {
	UserID          string
	TransactionID   string
	CategoryID      OptionalString
	Type            *TransactionType
	Amount          *decimal.Decimal
	TransactionDate *time.Time
	Description     OptionalString
	Status          *TransactionStatus
}

type AddAttachmentInput struct {
	UserID        string
	TransactionID string
	FileName      string
	FileURL       string
	MimeType      *string
	FileSize      *int64
}
