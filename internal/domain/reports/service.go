package reports

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Summary computes the KPI totals over the caller's transactions. Income and
// expense sums only count approved rows; the transaction count counts every
// row in range, pending and rejected included.
func (s *Service) Summary(ctx context.Context, userID string, dateRange DateRange) (Summary, error) {
	totals, err := s.repo.Totals(ctx, userID, dateRange)
	if err != nil {
		return Summary{}, err
	}
	return summaryFromTotals(totals), nil
}

func summaryFromTotals(totals Totals) Summary {
	return Summary{
		TotalIncome:      totals.TotalIncome,
		TotalExpense:     totals.TotalExpense,
		NetBalance:       totals.TotalIncome.Sub(totals.TotalExpense),
		TransactionCount: totals.TransactionCount,
	}
}

// CashFlow groups approved transactions by calendar month (YYYY-MM), ordered
// ascending. Gap months are absent; zero-filling is the chart's problem.
func (s *Service) CashFlow(ctx context.Context, userID string, dateRange DateRange) ([]CashFlowEntry, error) {
	return s.repo.CashFlow(ctx, userID, dateRange)
}

// Comparison computes the summary for [start, end] and for the immediately
// preceding period of identical duration, plus percentage changes. Both
// summaries are read inside one database transaction so a concurrent write
// cannot skew the pair.
func (s *Service) Comparison(ctx context.Context, userID string, start, end time.Time) (Comparison, error) {
	duration := end.Sub(start)
	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.Add(-duration)

	var current, previous Totals
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		current, err = tx.Totals(ctx, userID, DateRange{StartDate: &start, EndDate: &end})
		if err != nil {
			return err
		}
		previous, err = tx.Totals(ctx, userID, DateRange{StartDate: &prevStart, EndDate: &prevEnd})
		return err
	})
	if err != nil {
		return Comparison{}, err
	}

	currentSummary := summaryFromTotals(current)
	previousSummary := summaryFromTotals(previous)

	return Comparison{
		Current:  currentSummary,
		Previous: previousSummary,
		Changes: Changes{
			IncomeChange:  percentChange(currentSummary.TotalIncome, previousSummary.TotalIncome),
			ExpenseChange: percentChange(currentSummary.TotalExpense, previousSummary.TotalExpense),
			BalanceChange: percentChange(currentSummary.NetBalance, previousSummary.NetBalance),
		},
	}, nil
}

// percentChange follows the dashboard convention: from zero, any growth reads
// as 100%. A negative previous balance keeps the plain formula, sign flips and
// all.
func percentChange(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	return current.Sub(previous).Div(previous).InexactFloat64() * 100
}

// ExportCSV renders the caller's transactions (all statuses) as CSV text,
// newest first. Pure string building; delivery is the transport layer's job.
func (s *Service) ExportCSV(ctx context.Context, userID string, dateRange DateRange) (string, error) {
	rows, err := s.repo.ExportRows(ctx, userID, dateRange)
	if err != nil {
		return "", err
	}
	return buildCSV(rows), nil
}

func buildCSV(rows []ExportRow) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, "Date,Type,Category,Description,Amount,Status")

	for _, row := range rows {
		amount := row.Amount.StringFixed(2)
		if row.Type == "income" {
			amount = "+" + amount
		} else {
			amount = "-" + amount
		}

		fields := []string{
			row.Date.Format("2006-01-02"),
			row.Type,
			row.CategoryName,
			row.Description,
			amount,
			row.Status,
		}
		for i, field := range fields {
			fields[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	return strings.Join(lines, "\n")
}
