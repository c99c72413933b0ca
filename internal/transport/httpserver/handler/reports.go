package handler

import (
	"fmt"
	"net/http"
	"time"

	reportsdomain "fintrack-api/internal/domain/reports"
	"fintrack-api/internal/transport/httpserver/middleware"
)

type summaryResponse struct {
	TotalIncome      float64 `json:"totalIncome"`
	TotalExpense     float64 `json:"totalExpense"`
	NetBalance       float64 `json:"netBalance"`
	TransactionCount int64   `json:"transactionCount"`
}

type cashFlowEntryResponse struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type changesResponse struct {
	IncomeChange  float64 `json:"incomeChange"`
	ExpenseChange float64 `json:"expenseChange"`
	BalanceChange float64 `json:"balanceChange"`
}

type comparisonResponse struct {
	Current  summaryResponse `json:"current"`
	Previous summaryResponse `json:"previous"`
	Changes  changesResponse `json:"changes"`
}

func toSummaryResponse(summary reportsdomain.Summary) summaryResponse {
	return summaryResponse{
		TotalIncome:      summary.TotalIncome.InexactFloat64(),
		TotalExpense:     summary.TotalExpense.InexactFloat64(),
		NetBalance:       summary.NetBalance.InexactFloat64(),
		TransactionCount: summary.TransactionCount,
	}
}

func (h *Handlers) reportDateRange(w http.ResponseWriter, r *http.Request) (reportsdomain.DateRange, bool) {
	query := r.URL.Query()
	startDate, err := parseDateParam(query.Get("startDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid startDate")
		return reportsdomain.DateRange{}, false
	}
	endDate, err := parseDateParam(query.Get("endDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid endDate")
		return reportsdomain.DateRange{}, false
	}
	return reportsdomain.DateRange{StartDate: startDate, EndDate: endDate}, true
}

func (h *Handlers) SummaryReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	dateRange, ok := h.reportDateRange(w, r)
	if !ok {
		return
	}

	summary, err := h.Reports.Summary(r.Context(), userID, dateRange)
	if err != nil {
		h.log.InternalError("reports.summary: query failed", err, "user_id", userID)
		h.writeInternal(w, "Failed to fetch summary", err)
		return
	}

	writeData(w, http.StatusOK, toSummaryResponse(summary))
}

func (h *Handlers) CashFlowReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	dateRange, ok := h.reportDateRange(w, r)
	if !ok {
		return
	}

	entries, err := h.Reports.CashFlow(r.Context(), userID, dateRange)
	if err != nil {
		h.log.InternalError("reports.cash_flow: query failed", err, "user_id", userID)
		h.writeInternal(w, "Failed to fetch cash flow", err)
		return
	}

	response := make([]cashFlowEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, cashFlowEntryResponse{
			Month:   entry.Month,
			Income:  entry.Income.InexactFloat64(),
			Expense: entry.Expense.InexactFloat64(),
		})
	}

	writeData(w, http.StatusOK, response)
}

func (h *Handlers) ComparisonReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := r.URL.Query()
	if query.Get("startDate") == "" || query.Get("endDate") == "" {
		writeError(w, http.StatusBadRequest, "startDate and endDate are required for comparison")
		return
	}
	start, err := parseDateRequired(query.Get("startDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid startDate")
		return
	}
	end, err := parseDateRequired(query.Get("endDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid endDate")
		return
	}

	comparison, err := h.Reports.Comparison(r.Context(), userID, start, end)
	if err != nil {
		h.log.InternalError("reports.comparison: query failed", err, "user_id", userID)
		h.writeInternal(w, "Failed to fetch comparison", err)
		return
	}

	writeData(w, http.StatusOK, comparisonResponse{
		Current:  toSummaryResponse(comparison.Current),
		Previous: toSummaryResponse(comparison.Previous),
		Changes: changesResponse{
			IncomeChange:  comparison.Changes.IncomeChange,
			ExpenseChange: comparison.Changes.ExpenseChange,
			BalanceChange: comparison.Changes.BalanceChange,
		},
	})
}

func (h *Handlers) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	dateRange, ok := h.reportDateRange(w, r)
	if !ok {
		return
	}

	csv, err := h.Reports.ExportCSV(r.Context(), userID, dateRange)
	if err != nil {
		h.log.InternalError("reports.export: query failed", err, "user_id", userID)
		h.writeInternal(w, "Failed to export transactions", err)
		return
	}

	fileName := fmt.Sprintf("transactions_%s.csv", time.Now().Format(dateLayout))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(csv))
}
