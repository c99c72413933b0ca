package reports

import (
	"context"
	"strings"

	reportsdomain "fintrack-api/internal/domain/reports"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(reportsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Totals(ctx context.Context, userID string, dateRange reportsdomain.DateRange) (reportsdomain.Totals, error) {
	where, args := buildTransactionWhere(userID, dateRange)

	// Income/expense sums count approved rows only; the row count does not
	// filter by status.
	query := `SELECT
		COALESCE(SUM(CASE WHEN t.type = 'income' AND t.status = 'approved' THEN t.amount ELSE 0 END), 0) AS total_income,
		COALESCE(SUM(CASE WHEN t.type = 'expense' AND t.status = 'approved' THEN t.amount ELSE 0 END), 0) AS total_expense,
		COUNT(*) AS transaction_count
	FROM transactions t WHERE ` + where

	var row reportsdomain.Totals
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&row).Error; err != nil {
		return reportsdomain.Totals{}, err
	}
	return row, nil
}

func (r *PostgresRepository) CashFlow(ctx context.Context, userID string, dateRange reportsdomain.DateRange) ([]reportsdomain.CashFlowEntry, error) {
	where, args := buildTransactionWhere(userID, dateRange)
	where += " AND t.status = 'approved'"

	query := `SELECT
		TO_CHAR(t.transaction_date, 'YYYY-MM') AS month,
		COALESCE(SUM(CASE WHEN t.type = 'income' THEN t.amount ELSE 0 END), 0) AS income,
		COALESCE(SUM(CASE WHEN t.type = 'expense' THEN t.amount ELSE 0 END), 0) AS expense
	FROM transactions t WHERE ` + where + `
	GROUP BY 1 ORDER BY 1`

	var rows []reportsdomain.CashFlowEntry
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) ExportRows(ctx context.Context, userID string, dateRange reportsdomain.DateRange) ([]reportsdomain.ExportRow, error) {
	where, args := buildTransactionWhere(userID, dateRange)

	query := `SELECT
		t.transaction_date AS date,
		t.type::text AS type,
		COALESCE(c.name, '') AS category_name,
		COALESCE(t.description, '') AS description,
		t.amount AS amount,
		t.status::text AS status
	FROM transactions t
	LEFT JOIN categories c ON c.id = t.category_id
	WHERE ` + where + `
	ORDER BY t.transaction_date DESC`

	var rows []reportsdomain.ExportRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func buildTransactionWhere(userID string, dateRange reportsdomain.DateRange) (string, []interface{}) {
	conditions := []string{"t.user_id = ?"}
	args := []interface{}{userID}

	if dateRange.StartDate != nil {
		conditions = append(conditions, "t.transaction_date >= ?")
		args = append(args, *dateRange.StartDate)
	}
	if dateRange.EndDate != nil {
		conditions = append(conditions, "t.transaction_date <= ?")
		args = append(args, *dateRange.EndDate)
	}

	return strings.Join(conditions, " AND "), args
}
