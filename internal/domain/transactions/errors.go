package transactions

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAttachmentNotFound  = errors.New("attachment not found")
	ErrInvalidAmount       = errors.New("amount must be non-negative with at most 2 decimal places")
	ErrInvalidType         = errors.New("transaction type must be income or expense")
	ErrInvalidStatus       = errors.New("status must be pending, approved or rejected")
)
