package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/infrastructure/auth"
)

func TestAuthMiddleware(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Minute)
	token, err := manager.Generate(&domain.User{ID: "acc-1", Role: domain.RoleInvestor})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + token, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *domain.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = domain.UserFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			AuthMiddleware(manager)(next).ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rr.Code)
			}
			if tt.status == http.StatusOK && (seen == nil || seen.ID != "acc-1" || seen.Role != domain.RoleInvestor) {
				t.Fatalf("expected user on context, got %+v", seen)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		user   *domain.User
		role   domain.Role
		status int
	}{
		{name: "anonymous", user: nil, role: domain.RoleAdmin, status: http.StatusUnauthorized},
		{name: "investor on admin route", user: &domain.User{ID: "acc-1", Role: domain.RoleInvestor}, role: domain.RoleAdmin, status: http.StatusForbidden},
		{name: "admin on admin route", user: &domain.User{ID: "adm", Role: domain.RoleAdmin}, role: domain.RoleAdmin, status: http.StatusOK},
		{name: "admin on investor route", user: &domain.User{ID: "adm", Role: domain.RoleAdmin}, role: domain.RoleInvestor, status: http.StatusOK},
		{name: "investor on investor route", user: &domain.User{ID: "acc-1", Role: domain.RoleInvestor}, role: domain.RoleInvestor, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				req = req.WithContext(domain.ContextWithUser(req.Context(), tt.user))
			}
			rr := httptest.NewRecorder()

			RequireRole(tt.role)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rr.Code)
			}
		})
	}
}
