package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/mintledger/internal/adapter/http/dto"
	"github.com/iho/mintledger/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/accounts?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/accounts?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"investment not found", domain.ErrInvestmentNotFound, http.StatusNotFound},
		{"loan not found", fmt.Errorf("decide: %w", domain.ErrLoanNotFound), http.StatusNotFound},
		{"already processed", domain.ErrAlreadyProcessed, http.StatusConflict},
		{"invalid code", domain.ErrInvalidOrExpiredCode, http.StatusUnprocessableEntity},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{"conflict", fmt.Errorf("%w: 40001", domain.ErrTransactionConflict), http.StatusServiceUnavailable},
		{"store unavailable", domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"invalid payment option", domain.ErrInvalidPaymentOption, http.StatusBadRequest},
		{"invalid id", domain.ErrInvalidIDFormat, http.StatusBadRequest},
		{"price unavailable", domain.ErrPriceUnavailable, http.StatusBadGateway},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, "failed", domain.ErrTransactionConflict)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After header, got %q", rec.Header().Get("Retry-After"))
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "failed" || resp.Message != domain.ErrTransactionConflict.Error() {
		t.Fatalf("unexpected body: %+v", resp)
	}

	rec = httptest.NewRecorder()
	writeDomainError(rec, "failed", errors.New("pq: secret detail"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "internal error" {
		t.Fatalf("internal errors must not leak, got %q", resp.Message)
	}
}

func TestAuthorizeAccount(t *testing.T) {
	tests := []struct {
		name string
		user *domain.User
		want bool
	}{
		{name: "anonymous", user: nil, want: true},
		{name: "owner", user: &domain.User{ID: "acc-1", Role: domain.RoleInvestor}, want: true},
		{name: "admin", user: &domain.User{ID: "admin-1", Role: domain.RoleAdmin}, want: true},
		{name: "other investor", user: &domain.User{ID: "acc-2", Role: domain.RoleInvestor}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				req = req.WithContext(domain.ContextWithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()

			if got := authorizeAccount(rec, req, "acc-1"); got != tt.want {
				t.Fatalf("authorizeAccount() = %v, want %v", got, tt.want)
			}
			if !tt.want && rec.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", rec.Code)
			}
		})
	}
}

// withURLParams attaches chi route params to req.
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// withUser attaches an authenticated principal to req.
func withUser(req *http.Request, id string, role domain.Role) *http.Request {
	return req.WithContext(domain.ContextWithUser(req.Context(), &domain.User{ID: id, Role: role}))
}
