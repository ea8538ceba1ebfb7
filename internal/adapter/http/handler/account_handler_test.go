package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/mintledger/internal/adapter/http/dto"
	"github.com/iho/mintledger/internal/domain"
)

type accountServiceStub struct {
	getFn               func(ctx context.Context, id string) (*domain.Account, error)
	listInvestmentsFn   func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Investment, error)
	getInvestmentFn     func(ctx context.Context, id string) (*domain.Investment, error)
	listNotificationsFn func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Notification, error)
	subscribeFn         func(ctx context.Context, accountID string, tables []string) (<-chan domain.ChangeEvent, error)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) ListInvestments(ctx context.Context, accountID string, limit, offset int) ([]*domain.Investment, error) {
	return s.listInvestmentsFn(ctx, accountID, limit, offset)
}

func (s *accountServiceStub) GetInvestment(ctx context.Context, id string) (*domain.Investment, error) {
	return s.getInvestmentFn(ctx, id)
}

func (s *accountServiceStub) ListNotifications(ctx context.Context, accountID string, limit, offset int) ([]*domain.Notification, error) {
	return s.listNotificationsFn(ctx, accountID, limit, offset)
}

func (s *accountServiceStub) Subscribe(ctx context.Context, accountID string, tables []string) (<-chan domain.ChangeEvent, error) {
	return s.subscribeFn(ctx, accountID, tables)
}

func TestAccountHandler_Get(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			if id != "acc-1" {
				return nil, domain.ErrAccountNotFound
			}
			return &domain.Account{ID: "acc-1", Balance: decimal.NewFromInt(1000), Bonus: decimal.NewFromInt(50)}, nil
		},
	})

	t.Run("found", func(t *testing.T) {
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil), map[string]string{"id": "acc-1"})
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp dto.AccountResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ID != "acc-1" || !resp.Total.Equal(decimal.NewFromInt(1050)) {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("not found", func(t *testing.T) {
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/accounts/missing", nil), map[string]string{"id": "missing"})
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("other investor", func(t *testing.T) {
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil), map[string]string{"id": "acc-1"})
		req = withUser(req, "acc-2", domain.RoleInvestor)
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}

func TestAccountHandler_ListInvestments(t *testing.T) {
	var gotLimit, gotOffset int
	handler := NewAccountHandler(&accountServiceStub{
		listInvestmentsFn: func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Investment, error) {
			gotLimit, gotOffset = limit, offset
			return []*domain.Investment{{ID: "inv-1", AccountID: accountID, Status: domain.InvestmentStatusActive}}, nil
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/accounts/acc-1/investments?limit=5&offset=10", nil), map[string]string{"id": "acc-1"})
	rec := httptest.NewRecorder()

	handler.ListInvestments(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotLimit != 5 || gotOffset != 10 {
		t.Fatalf("expected pagination 5/10, got %d/%d", gotLimit, gotOffset)
	}
	var resp dto.ListInvestmentsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Investments[0].Status != "active" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAccountHandler_GetInvestmentChecksOwner(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getInvestmentFn: func(ctx context.Context, id string) (*domain.Investment, error) {
			return &domain.Investment{ID: id, AccountID: "acc-1"}, nil
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/investments/inv-1", nil), map[string]string{"id": "inv-1"})
	req = withUser(req, "acc-9", domain.RoleInvestor)
	rec := httptest.NewRecorder()

	handler.GetInvestment(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAccountHandler_ListNotifications(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		listNotificationsFn: func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Notification, error) {
			return []*domain.Notification{{ID: "n-1", AccountID: accountID, Kind: domain.NotificationLoanApproved}}, nil
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/accounts/acc-1/notifications", nil), map[string]string{"id": "acc-1"})
	rec := httptest.NewRecorder()

	handler.ListNotifications(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"kind":"loan_approved"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAccountHandler_ChangesStreamsEvents(t *testing.T) {
	events := make(chan domain.ChangeEvent, 1)
	var gotTables []string

	handler := NewAccountHandler(&accountServiceStub{
		subscribeFn: func(ctx context.Context, accountID string, tables []string) (<-chan domain.ChangeEvent, error) {
			gotTables = tables
			return events, nil
		},
	})

	events <- domain.ChangeEvent{Table: "accounts", Type: "update", AccountID: "acc-1", RecordID: "acc-1", At: time.Unix(0, 0).UTC()}
	close(events)

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/accounts/acc-1/changes?tables=accounts,investments", nil), map[string]string{"id": "acc-1"})
	rec := httptest.NewRecorder()

	handler.Changes(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if len(gotTables) != 2 || gotTables[1] != "investments" {
		t.Fatalf("unexpected tables %v", gotTables)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: accounts\n") || !strings.Contains(body, `"record_id":"acc-1"`) {
		t.Fatalf("unexpected stream: %q", body)
	}
}

func TestAccountHandler_ChangesUnknownAccount(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		subscribeFn: func(ctx context.Context, accountID string, tables []string) (<-chan domain.ChangeEvent, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/accounts/nope/changes", nil), map[string]string{"id": "nope"})
	rec := httptest.NewRecorder()

	handler.Changes(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
