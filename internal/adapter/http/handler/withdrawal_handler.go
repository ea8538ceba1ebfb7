package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/mintledger/internal/adapter/http/dto"
	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/usecase"
)

// WithdrawalService defines the behavior needed by WithdrawalHandler.
type WithdrawalService interface {
	Withdraw(ctx context.Context, input usecase.WithdrawalInput) (*domain.Withdrawal, error)
	ListWithdrawals(ctx context.Context, accountID string, limit, offset int) ([]*domain.Withdrawal, error)
}

// WithdrawalHandler handles investor withdrawal requests.
type WithdrawalHandler struct {
	withdrawalUC WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawalUC WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalUC: withdrawalUC}
}

// Withdraw redeems the code and records the request in one transaction.
func (h *WithdrawalHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.withdrawalUC.Withdraw, "failed to withdraw")
}

func (h *WithdrawalHandler) handle(
	w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, usecase.WithdrawalInput) (*domain.Withdrawal, error),
	failure string,
) {
	accountID := chi.URLParam(r, "id")
	if !authorizeAccount(w, r, accountID) {
		return
	}

	var req dto.WithdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	withdrawal, err := op(r.Context(), req.ToUseCaseInput(accountID))
	if err != nil {
		writeDomainError(w, failure, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.WithdrawalFromDomain(withdrawal))
}

// List lists an account's withdrawal requests.
func (h *WithdrawalHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if !authorizeAccount(w, r, accountID) {
		return
	}

	withdrawals, err := h.withdrawalUC.ListWithdrawals(r.Context(), accountID,
		parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list withdrawals", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListWithdrawalsResponse{
		Withdrawals: dto.WithdrawalsFromDomain(withdrawals),
		Total:       int64(len(withdrawals)),
	})
}
