package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iho/mintledger/internal/infrastructure/auth"
)

type capturedRequest struct {
	method         string
	path           string
	rawQuery       string
	authorization  string
	idempotencyKey string
	body           map[string]any
}

func newTestAPI(t *testing.T, status int, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()

	got := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.rawQuery = r.URL.RawQuery
		got.authorization = r.Header.Get("Authorization")
		got.idempotencyKey = r.Header.Get(idempotencyKeyHeader)
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			if err := json.Unmarshal(raw, &got.body); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return srv, got
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestConsistencyCommand(t *testing.T) {
	srv, got := newTestAPI(t, http.StatusOK, `{"consistent":true}`)

	out, err := execute(t, "--url", srv.URL, "--token", "tok", "ledger", "consistency")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if got.method != http.MethodGet || got.path != "/api/v1/admin/consistency" {
		t.Fatalf("unexpected request %s %s", got.method, got.path)
	}
	if got.authorization != "Bearer tok" {
		t.Fatalf("expected bearer token, got %q", got.authorization)
	}
	if got.idempotencyKey != "" {
		t.Fatalf("GET should not carry an idempotency key")
	}
	if out != "{\n  \"consistent\": true\n}\n" {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestConsistencyCommandFailsOnConflict(t *testing.T) {
	srv, _ := newTestAPI(t, http.StatusConflict, `{"consistent":false,"negative_accounts":1}`)

	out, err := execute(t, "--url", srv.URL, "ledger", "consistency")
	if !errors.Is(err, errRequestFailed) {
		t.Fatalf("expected errRequestFailed, got %v", err)
	}
	if !strings.Contains(out, `"negative_accounts": 1`) {
		t.Fatalf("expected report in output, got:\n%s", out)
	}
}

func TestIssueCodeCommand(t *testing.T) {
	srv, got := newTestAPI(t, http.StatusCreated, `{"code":"ABCDEFGHJK"}`)

	_, err := execute(t, "--url", srv.URL, "code", "issue", "acct-1", "--amount", "250.50", "--ttl", "2h")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if got.method != http.MethodPost || got.path != "/api/v1/admin/withdrawal-codes" {
		t.Fatalf("unexpected request %s %s", got.method, got.path)
	}
	if got.idempotencyKey == "" {
		t.Fatalf("POST should carry an idempotency key")
	}
	if got.body["account_id"] != "acct-1" || got.body["amount"] != "250.5" {
		t.Fatalf("unexpected body: %v", got.body)
	}
	if got.body["ttl_seconds"] != float64(7200) {
		t.Fatalf("expected ttl_seconds 7200, got %v", got.body["ttl_seconds"])
	}
}

func TestIssueCodeRejectsBadAmount(t *testing.T) {
	srv, got := newTestAPI(t, http.StatusCreated, `{}`)

	if _, err := execute(t, "--url", srv.URL, "code", "issue", "acct-1", "--amount", "lots"); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
	if got.method != "" {
		t.Fatalf("no request should be sent, got %s %s", got.method, got.path)
	}
}

func TestAddFundsCommand(t *testing.T) {
	srv, got := newTestAPI(t, http.StatusOK, `{"id":"acct-1"}`)

	if _, err := execute(t, "--url", srv.URL, "add-funds", "acct-1", "--balance", "-10", "--bonus", "5"); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if got.path != "/api/v1/admin/accounts/acct-1/funds" {
		t.Fatalf("unexpected path %s", got.path)
	}
	if got.body["delta_balance"] != "-10" || got.body["delta_bonus"] != "5" {
		t.Fatalf("unexpected body: %v", got.body)
	}
}

func TestLoanDeclineCommand(t *testing.T) {
	srv, got := newTestAPI(t, http.StatusOK, `{"status":"declined"}`)

	if _, err := execute(t, "--url", srv.URL, "loan", "decline", "loan-9"); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if got.path != "/api/v1/admin/loans/loan-9/decline" {
		t.Fatalf("unexpected path %s", got.path)
	}
}

func TestNotifyExpiredCommand(t *testing.T) {
	srv, got := newTestAPI(t, http.StatusOK, `{"notified":3}`)

	out, err := execute(t, "--url", srv.URL, "code", "notify-expired")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if got.method != http.MethodPost || got.path != "/api/v1/admin/withdrawal-codes/notify-expired" {
		t.Fatalf("unexpected request %s %s", got.method, got.path)
	}
	if !strings.Contains(out, `"notified": 3`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestSweepDryRunCommand(t *testing.T) {
	srv, got := newTestAPI(t, http.StatusOK, `{"dry_run":true}`)

	if _, err := execute(t, "--url", srv.URL, "retention", "sweep", "--dry-run"); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if got.path != "/api/v1/admin/retention/sweep" || got.rawQuery != "dry_run=true" {
		t.Fatalf("unexpected request %s?%s", got.path, got.rawQuery)
	}
}

func TestWithdrawCommandRequiresCode(t *testing.T) {
	srv, got := newTestAPI(t, http.StatusCreated, `{}`)

	if _, err := execute(t, "--url", srv.URL, "withdraw", "acct-1", "--amount", "10", "--payment-option", "Bitcoin"); err == nil {
		t.Fatal("expected error for missing --code")
	}
	if got.method != "" {
		t.Fatalf("no request should be sent")
	}
}

func TestTokenCommand(t *testing.T) {
	out, err := execute(t, "token", "--secret", "s3cret", "--subject", "acct-1", "--role", "investor")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	claims, err := auth.NewJWTManager("s3cret", time.Hour).Verify(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Subject != "acct-1" || string(claims.Role) != "investor" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenCommandRejectsUnknownRole(t *testing.T) {
	if _, err := execute(t, "token", "--secret", "s3cret", "--subject", "acct-1", "--role", "root"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := execute(t, "migrate", "up"); err == nil {
		t.Fatal("expected error without a database URL")
	}
}

func TestPrintJSONPassesThroughNonJSON(t *testing.T) {
	var buf bytes.Buffer
	printJSON(&buf, []byte("upstream said no\n"))

	if buf.String() != "upstream said no\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
