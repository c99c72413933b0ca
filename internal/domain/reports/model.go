package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange bounds transaction_date inclusively; either side may be open.
type DateRange struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// Summary holds the dashboard KPIs. TotalIncome and TotalExpense only count
// approved transactions; TransactionCount counts every matching row regardless
// of status.
type Summary struct {
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	NetBalance       decimal.Decimal
	TransactionCount int64
}

// CashFlowEntry is one calendar month of approved income and expense totals.
// Months without transactions do not appear.
type CashFlowEntry struct {
	Month   string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

type Changes struct {
	IncomeChange  float64
	ExpenseChange float64
	BalanceChange float64
}

type Comparison struct {
	Current  Summary
	Previous Summary
	Changes  Changes
}

// ExportRow is one CSV line's worth of data, category already joined.
type ExportRow struct {
	Date         time.Time
	Type         string
	CategoryName string
	Description  string
	Amount       decimal.Decimal
	Status       string
}
