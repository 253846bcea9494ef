package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/txledger/internal/adapter/http/dto"
	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	Submit(ctx context.Context, input usecase.SubmitTransactionInput) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.HistoryEntry, error)
}

// TransactionHandler accepts transaction requests and serves account history.
type TransactionHandler struct {
	transactionUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// Create queues a transaction. Processing is asynchronous.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tr, err := h.transactionUC.Submit(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to submit transaction")
		return
	}

	writeJSON(w, http.StatusAccepted, dto.SubmitTransactionResponse{
		TransactionID: tr.ID(),
		Message:       "transaction queued for processing",
	})
}

// ListByAccount lists the applied transactions of an account.
func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	limit, offset := parsePagination(r)

	entries, err := h.transactionUC.ListByAccount(r.Context(), id, limit, offset)
	if err != nil {
		writeDomainError(w, err, "failed to list transactions")
		return
	}

	if len(entries) == 0 {
		writeError(w, http.StatusNotFound, "no transactions found", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(entries),
		Total:        int64(len(entries)),
	})
}
