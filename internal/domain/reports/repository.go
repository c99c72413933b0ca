package reports

import (
	"context"

	"github.com/shopspring/decimal"
)

// Totals is the raw aggregate row behind Summary; the service derives the net
// balance.
type Totals struct {
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	TransactionCount int64
}

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Totals(ctx context.Context, userID string, dateRange DateRange) (Totals, error)
	CashFlow(ctx context.Context, userID string, dateRange DateRange) ([]CashFlowEntry, error)
	ExportRows(ctx context.Context, userID string, dateRange DateRange) ([]ExportRow, error)
}
