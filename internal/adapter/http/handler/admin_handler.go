package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/mintledger/internal/adapter/http/dto"
	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/usecase"
)

// LedgerService is the coordinator surface used by admins.
type LedgerService interface {
	ApproveInvestment(ctx context.Context, input usecase.ApproveInvestmentInput) (*domain.Investment, error)
	ApproveLoan(ctx context.Context, loanID, approvedBy string) (*domain.Loan, error)
	DeclineLoan(ctx context.Context, loanID, declinedBy string) (*domain.Loan, error)
	AddFunds(ctx context.Context, input usecase.AddFundsInput) (*domain.Account, error)
}

// CodeService issues withdrawal codes and reports lapsed ones.
type CodeService interface {
	IssueCode(ctx context.Context, input usecase.IssueCodeInput) (*domain.WithdrawalCode, error)
	NotifyExpiredCodes(ctx context.Context) (int, error)
}

// AccrualService triggers accrual runs.
type AccrualService interface {
	AccrueInvestment(ctx context.Context, investmentID string) (*usecase.AccrualResult, error)
	AccrueAll(ctx context.Context) (*usecase.AccrualRunReport, error)
}

// RetentionService triggers retention sweeps.
type RetentionService interface {
	Sweep(ctx context.Context, dryRun bool) (*domain.SweepReport, error)
}

// ConsistencyService audits the stored ledger.
type ConsistencyService interface {
	CheckConsistency(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// AdminHandler exposes the administrative control surface.
type AdminHandler struct {
	ledger      LedgerService
	codes       CodeService
	accrual     AccrualService
	retention   RetentionService
	consistency ConsistencyService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	ledger LedgerService,
	codes CodeService,
	accrual AccrualService,
	retention RetentionService,
	consistency ConsistencyService,
) *AdminHandler {
	return &AdminHandler{
		ledger:      ledger,
		codes:       codes,
		accrual:     accrual,
		retention:   retention,
		consistency: consistency,
	}
}

// ApproveInvestment activates a pending investment.
func (h *AdminHandler) ApproveInvestment(w http.ResponseWriter, r *http.Request) {
	var req dto.ApproveInvestmentRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	inv, err := h.ledger.ApproveInvestment(r.Context(),
		req.ToUseCaseInput(chi.URLParam(r, "id"), domain.ActorFromContext(r.Context())))
	if err != nil {
		writeDomainError(w, "failed to approve investment", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InvestmentFromDomain(inv))
}

// ApproveLoan approves a pending loan.
func (h *AdminHandler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.ledger.ApproveLoan(r.Context(), chi.URLParam(r, "id"), domain.ActorFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, "failed to approve loan", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// DeclineLoan declines a pending loan.
func (h *AdminHandler) DeclineLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.ledger.DeclineLoan(r.Context(), chi.URLParam(r, "id"), domain.ActorFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, "failed to decline loan", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// AddFunds applies an administrative balance adjustment.
func (h *AdminHandler) AddFunds(w http.ResponseWriter, r *http.Request) {
	var req dto.AddFundsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.ledger.AddFunds(r.Context(),
		req.ToUseCaseInput(chi.URLParam(r, "id"), domain.ActorFromContext(r.Context())))
	if err != nil {
		writeDomainError(w, "failed to add funds", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// IssueCode issues a withdrawal code for an account.
func (h *AdminHandler) IssueCode(w http.ResponseWriter, r *http.Request) {
	var req dto.IssueCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	code, err := h.codes.IssueCode(r.Context(), req.ToUseCaseInput(domain.ActorFromContext(r.Context())))
	if err != nil {
		writeDomainError(w, "failed to issue code", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.WithdrawalCodeFromDomain(code))
}

// NotifyExpiredCodes runs the expired-code notification pass now.
func (h *AdminHandler) NotifyExpiredCodes(w http.ResponseWriter, r *http.Request) {
	n, err := h.codes.NotifyExpiredCodes(r.Context())
	if err != nil {
		writeDomainError(w, "expired code notification failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NotifyExpiredResponse{Notified: n})
}

// AccrueInvestment runs accrual for one investment.
func (h *AdminHandler) AccrueInvestment(w http.ResponseWriter, r *http.Request) {
	result, err := h.accrual.AccrueInvestment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to accrue investment", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccrualFromUseCase(result))
}

// AccrueAll runs accrual over every active investment.
func (h *AdminHandler) AccrueAll(w http.ResponseWriter, r *http.Request) {
	report, err := h.accrual.AccrueAll(r.Context())
	if err != nil {
		writeDomainError(w, "accrual run failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccrualRunFromUseCase(report))
}

// Sweep runs the retention sweep. ?dry_run=true only counts.
func (h *AdminHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	dryRun := r.URL.Query().Get("dry_run") == "true"

	report, err := h.retention.Sweep(r.Context(), dryRun)
	if err != nil {
		writeDomainError(w, "retention sweep failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SweepReportFromDomain(report))
}

// Consistency audits the stored ledger; 409 when invariants are violated.
func (h *AdminHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.consistency.CheckConsistency(r.Context())
	switch {
	case errors.Is(err, usecase.ErrInconsistentLedger):
		writeJSON(w, http.StatusConflict, dto.ConsistencyFromUseCase(report))
	case err != nil:
		writeDomainError(w, "consistency check failed", err)
	default:
		writeJSON(w, http.StatusOK, dto.ConsistencyFromUseCase(report))
	}
}
