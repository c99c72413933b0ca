package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	categoriesdomain "fintrack-api/internal/domain/categories"
	transactionsdomain "fintrack-api/internal/domain/transactions"
	"fintrack-api/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type attachmentResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transactionId"`
	FileName      string    `json:"fileName"`
	FileURL       string    `json:"fileUrl"`
	MimeType      *string   `json:"mimeType"`
	FileSize      *int64    `json:"fileSize"`
	CreatedAt     time.Time `json:"createdAt"`
}

type transactionResponse struct {
	ID              string               `json:"id"`
	UserID          string               `json:"userId"`
	CategoryID      *string              `json:"categoryId"`
	Type            string               `json:"type"`
	Amount          decimal.Decimal      `json:"amount"`
	TransactionDate string               `json:"transactionDate"`
	Description     *string              `json:"description"`
	Status          string               `json:"status"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
	Category        *categoryResponse    `json:"category,omitempty"`
	Attachments     []attachmentResponse `json:"attachments,omitempty"`
}

type paginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type transactionListResponse struct {
	Data       []transactionResponse `json:"data"`
	Pagination paginationResponse    `json:"pagination"`
}

func toAttachmentResponse(attachment transactionsdomain.Attachment) attachmentResponse {
	return attachmentResponse{
		ID:            attachment.ID,
		TransactionID: attachment.TransactionID,
		FileName:      attachment.FileName,
		FileURL:       attachment.FileURL,
		MimeType:      attachment.MimeType,
		FileSize:      attachment.FileSize,
		CreatedAt:     attachment.CreatedAt,
	}
}

func toTransactionResponse(detail transactionsdomain.TransactionDetail) transactionResponse {
	response := transactionResponse{
		ID:              detail.ID,
		UserID:          detail.UserID,
		CategoryID:      detail.CategoryID,
		Type:            string(detail.Type),
		Amount:          detail.Amount,
		TransactionDate: detail.TransactionDate.Format(dateLayout),
		Description:     detail.Description,
		Status:          string(detail.Status),
		CreatedAt:       detail.CreatedAt,
		UpdatedAt:       detail.UpdatedAt,
	}
	if detail.Category != nil {
		category := toCategoryResponse(*detail.Category)
		response.Category = &category
	}
	if detail.Attachments != nil {
		attachments := make([]attachmentResponse, 0, len(detail.Attachments))
		for _, attachment := range detail.Attachments {
			attachments = append(attachments, toAttachmentResponse(attachment))
		}
		response.Attachments = attachments
	}
	return response
}

type createTransactionRequest struct {
	CategoryID      *string          `json:"categoryId"`
	Type            string           `json:"type"`
	Amount          *decimal.Decimal `json:"amount"`
	TransactionDate string           `json:"transactionDate"`
	Description     *string          `json:"description"`
	Status          *string          `json:"status"`
}

type updateTransactionRequest struct {
	CategoryID      optionalString   `json:"categoryId"`
	Type            *string          `json:"type"`
	Amount          *decimal.Decimal `json:"amount"`
	TransactionDate *string          `json:"transactionDate"`
	Description     optionalString   `json:"description"`
	Status          *string          `json:"status"`
}

type addAttachmentRequest struct {
	FileName string  `json:"fileName"`
	FileURL  string  `json:"fileUrl"`
	MimeType *string `json:"mimeType"`
	FileSize *int64  `json:"fileSize"`
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := r.URL.Query()
	startDate, err := parseDateParam(query.Get("startDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid startDate")
		return
	}
	endDate, err := parseDateParam(query.Get("endDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid endDate")
		return
	}
	page, err := parseIntParam(query.Get("page"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid page")
		return
	}
	limit, err := parseIntParam(query.Get("limit"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	filter := transactionsdomain.ListFilter{
		StartDate:  startDate,
		EndDate:    endDate,
		CategoryID: strings.TrimSpace(query.Get("categoryId")),
		Page:       page,
		Limit:      limit,
	}
	if raw := strings.TrimSpace(query.Get("type")); raw != "" {
		parsed := transactionsdomain.TransactionType(raw)
		if !parsed.Valid() {
			writeError(w, http.StatusBadRequest, "Invalid type")
			return
		}
		filter.Type = &parsed
	}
	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		parsed := transactionsdomain.TransactionStatus(raw)
		if !parsed.Valid() {
			writeError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		filter.Status = &parsed
	}

	result, err := h.Transactions.List(r.Context(), userID, filter)
	if err != nil {
		h.log.InternalError("transactions.list: list failed", err, "user_id", userID)
		h.writeInternal(w, "Failed to fetch transactions", err)
		return
	}

	items := make([]transactionResponse, 0, len(result.Items))
	for _, detail := range result.Items {
		items = append(items, toTransactionResponse(detail))
	}

	writeJSON(w, http.StatusOK, transactionListResponse{
		Data: items,
		Pagination: paginationResponse{
			Page:       result.Pagination.Page,
			Limit:      result.Pagination.Limit,
			Total:      result.Pagination.Total,
			TotalPages: result.Pagination.TotalPages,
		},
	})
}

func (h *Handlers) RecentTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, err := parseIntParam(r.URL.Query().Get("limit"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	items, err := h.Transactions.Recent(r.Context(), userID, limit)
	if err != nil {
		h.log.InternalError("transactions.recent: list failed", err, "user_id", userID)
		h.writeInternal(w, "Failed to fetch recent transactions", err)
		return
	}

	response := make([]transactionResponse, 0, len(items))
	for _, detail := range items {
		response = append(response, toTransactionResponse(detail))
	}

	writeData(w, http.StatusOK, response)
}

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transactionID := strings.TrimSpace(chi.URLParam(r, "id"))

	detail, err := h.Transactions.Get(r.Context(), userID, transactionID)
	if err != nil {
		if errors.Is(err, transactionsdomain.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		h.log.InternalError("transactions.get: get failed", err, "user_id", userID, "transaction_id", transactionID)
		h.writeInternal(w, "Failed to fetch transaction", err)
		return
	}

	writeData(w, http.StatusOK, toTransactionResponse(*detail))
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Type == "" || req.Amount == nil || strings.TrimSpace(req.TransactionDate) == "" {
		writeError(w, http.StatusBadRequest, "Type, amount, and transactionDate are required")
		return
	}

	transactionDate, err := parseDateRequired(req.TransactionDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transactionDate")
		return
	}

	input := transactionsdomain.CreateTransactionInput{
		UserID:          userID,
		CategoryID:      req.CategoryID,
		Type:            transactionsdomain.TransactionType(req.Type),
		Amount:          *req.Amount,
		TransactionDate: transactionDate,
		Description:     req.Description,
	}
	if req.Status != nil {
		status := transactionsdomain.TransactionStatus(*req.Status)
		input.Status = &status
	}

	created, err := h.Transactions.Create(r.Context(), input)
	if err != nil {
		if h.writeTransactionValidationError(w, err) {
			return
		}
		h.log.InternalError("transactions.create: create failed", err, "user_id", userID)
		h.writeInternal(w, "Failed to create transaction", err)
		return
	}

	writeData(w, http.StatusCreated, toTransactionResponse(*created))
}

func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transactionID := strings.TrimSpace(chi.URLParam(r, "id"))

	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	input := transactionsdomain.UpdateTransactionInput{
		UserID:        userID,
		TransactionID: transactionID,
		CategoryID:    transactionsdomain.OptionalString{Set: req.CategoryID.Set, Value: req.CategoryID.Value},
		Amount:        req.Amount,
		Description:   transactionsdomain.OptionalString{Set: req.Description.Set, Value: req.Description.Value},
	}
	if req.Type != nil {
		parsed := transactionsdomain.TransactionType(*req.Type)
		input.Type = &parsed
	}
	if req.Status != nil {
		parsed := transactionsdomain.TransactionStatus(*req.Status)
		input.Status = &parsed
	}
	if req.TransactionDate != nil {
		parsed, err := parseDateRequired(*req.TransactionDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid transactionDate")
			return
		}
		input.TransactionDate = &parsed
	}

	updated, err := h.Transactions.Update(r.Context(), input)
	if err != nil {
		if errors.Is(err, transactionsdomain.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		if h.writeTransactionValidationError(w, err) {
			return
		}
		h.log.InternalError("transactions.update: update failed", err, "user_id", userID, "transaction_id", transactionID)
		h.writeInternal(w, "Failed to update transaction", err)
		return
	}

	writeData(w, http.StatusOK, toTransactionResponse(*updated))
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transactionID := strings.TrimSpace(chi.URLParam(r, "id"))

	if err := h.Transactions.Delete(r.Context(), userID, transactionID); err != nil {
		if errors.Is(err, transactionsdomain.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		h.log.InternalError("transactions.delete: delete failed", err, "user_id", userID, "transaction_id", transactionID)
		h.writeInternal(w, "Failed to delete transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}

func (h *Handlers) AddAttachment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transactionID := strings.TrimSpace(chi.URLParam(r, "id"))

	var req addAttachmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if strings.TrimSpace(req.FileName) == "" || strings.TrimSpace(req.FileURL) == "" {
		writeError(w, http.StatusBadRequest, "FileName and fileUrl are required")
		return
	}

	attachment, err := h.Transactions.AddAttachment(r.Context(), transactionsdomain.AddAttachmentInput{
		UserID:        userID,
		TransactionID: transactionID,
		FileName:      req.FileName,
		FileURL:       req.FileURL,
		MimeType:      req.MimeType,
		FileSize:      req.FileSize,
	})
	if err != nil {
		if errors.Is(err, transactionsdomain.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		h.log.InternalError("transactions.add_attachment: create failed", err, "user_id", userID, "transaction_id", transactionID)
		h.writeInternal(w, "Failed to add attachment", err)
		return
	}

	writeData(w, http.StatusCreated, toAttachmentResponse(*attachment))
}

func (h *Handlers) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transactionID := strings.TrimSpace(chi.URLParam(r, "id"))
	attachmentID := strings.TrimSpace(chi.URLParam(r, "attachmentId"))

	if err := h.Transactions.DeleteAttachment(r.Context(), userID, transactionID, attachmentID); err != nil {
		if errors.Is(err, transactionsdomain.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		if errors.Is(err, transactionsdomain.ErrAttachmentNotFound) {
			writeError(w, http.StatusNotFound, "Attachment not found")
			return
		}
		h.log.InternalError("transactions.delete_attachment: delete failed", err, "user_id", userID, "transaction_id", transactionID)
		h.writeInternal(w, "Failed to delete attachment", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Attachment deleted successfully"})
}

func (h *Handlers) writeTransactionValidationError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, transactionsdomain.ErrInvalidType):
		writeError(w, http.StatusBadRequest, "Type must be 'income' or 'expense'")
	case errors.Is(err, transactionsdomain.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "Status must be 'pending', 'approved' or 'rejected'")
	case errors.Is(err, transactionsdomain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "Amount must be non-negative with at most 2 decimal places")
	case errors.Is(err, categoriesdomain.ErrCategoryNotFound):
		writeError(w, http.StatusNotFound, "Category not found")
	default:
		return false
	}
	return true
}
