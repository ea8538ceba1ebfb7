package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/mintledger/internal/adapter/http/dto"
	"github.com/iho/mintledger/internal/domain"
)

const sseHeartbeat = 15 * time.Second

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListInvestments(ctx context.Context, accountID string, limit, offset int) ([]*domain.Investment, error)
	GetInvestment(ctx context.Context, id string) (*domain.Investment, error)
	ListNotifications(ctx context.Context, accountID string, limit, offset int) ([]*domain.Notification, error)
	Subscribe(ctx context.Context, accountID string, tables []string) (<-chan domain.ChangeEvent, error)
}

// AccountHandler serves the investor dashboard reads and change stream.
type AccountHandler struct {
	accountUC AccountService
	heartbeat time.Duration
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, heartbeat: sseHeartbeat}
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !authorizeAccount(w, r, id) {
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// ListInvestments lists an account's investments.
func (h *AccountHandler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !authorizeAccount(w, r, id) {
		return
	}

	investments, err := h.accountUC.ListInvestments(r.Context(), id,
		parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list investments", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListInvestmentsResponse{
		Investments: dto.InvestmentsFromDomain(investments),
		Total:       int64(len(investments)),
	})
}

// GetInvestment retrieves one investment. Investors only see their own.
func (h *AccountHandler) GetInvestment(w http.ResponseWriter, r *http.Request) {
	inv, err := h.accountUC.GetInvestment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get investment", err)
		return
	}
	if !authorizeAccount(w, r, inv.AccountID) {
		return
	}

	writeJSON(w, http.StatusOK, dto.InvestmentFromDomain(inv))
}

// ListNotifications lists an account's notifications, newest first.
func (h *AccountHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !authorizeAccount(w, r, id) {
		return
	}

	notifications, err := h.accountUC.ListNotifications(r.Context(), id,
		parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list notifications", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListNotificationsResponse{
		Notifications: dto.NotificationsFromDomain(notifications),
		Total:         int64(len(notifications)),
	})
}

// Changes streams committed changes for the account as server-sent events.
// ?tables=accounts,investments narrows the stream.
func (h *AccountHandler) Changes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !authorizeAccount(w, r, id) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", "")
		return
	}

	var tables []string
	if raw := r.URL.Query().Get("tables"); raw != "" {
		tables = strings.Split(raw, ",")
	}

	events, err := h.accountUC.Subscribe(r.Context(), id, tables)
	if err != nil {
		writeDomainError(w, "failed to subscribe", err)
		return
	}

	// The stream outlives the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case ev, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Table, data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
