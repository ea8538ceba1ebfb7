package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/infrastructure/auth"
	"github.com/iho/mintledger/internal/infrastructure/postgres"
)

const idempotencyKeyHeader = "Idempotency-Key"

// errRequestFailed marks a non-2xx answer; the body has already been printed.
var errRequestFailed = errors.New("request failed")

type options struct {
	baseURL string
	token   string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "mintledger-cli",
		Short:        "MintLedger CLI tool",
		Long:         `A command line interface for operating the MintLedger API and database.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("MINTLEDGER_URL", "http://localhost:8080"), "Base URL of the MintLedger API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("MINTLEDGER_TOKEN"), "Bearer token for the API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(
		ledgerCmd(opts),
		investmentCmd(opts),
		loanCmd(opts),
		fundsCmd(opts),
		codeCmd(opts),
		withdrawCmd(opts),
		accrualCmd(opts),
		retentionCmd(opts),
		migrateCmd(),
		tokenCmd(),
	)

	return rootCmd
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Audit the stored ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newAPIClient(opts, cmd.OutOrStdout()).do(cmd.Context(), http.MethodGet, "/api/v1/admin/consistency", nil)
		},
	})

	return cmd
}

func investmentCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "investment",
		Short: "Investment operations",
	}

	var capital, roiTarget, bonusTarget string
	var creditBonus bool

	approve := &cobra.Command{
		Use:   "approve <investment-id>",
		Short: "Activate a pending investment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"credit_bonus_now": creditBonus}
			for field, raw := range map[string]string{"capital": capital, "roi_target": roiTarget, "bonus_target": bonusTarget} {
				if raw == "" {
					continue
				}
				v, err := parseAmount(field, raw)
				if err != nil {
					return err
				}
				body[field] = v
			}
			return newAPIClient(opts, cmd.OutOrStdout()).do(cmd.Context(), http.MethodPost,
				"/api/v1/admin/investments/"+args[0]+"/approve", body)
		},
	}
	approve.Flags().StringVar(&capital, "capital", "", "Approved capital (defaults to the requested amount)")
	approve.Flags().StringVar(&roiTarget, "roi-target", "", "ROI target (defaults to the plan table)")
	approve.Flags().StringVar(&bonusTarget, "bonus-target", "", "Bonus target (defaults to the plan table)")
	approve.Flags().BoolVar(&creditBonus, "credit-bonus-now", false, "Credit the whole bonus target on approval")

	accrue := &cobra.Command{
		Use:   "accrue <investment-id>",
		Short: "Run accrual for one investment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newAPIClient(opts, cmd.OutOrStdout()).do(cmd.Context(), http.MethodPost,
				"/api/v1/admin/investments/"+args[0]+"/accrue", nil)
		},
	}

	cmd.AddCommand(approve, accrue)
	return cmd
}

func loanCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Loan decisions",
	}

	for _, action := range []string{"approve", "decline"} {
		action := action
		cmd.AddCommand(&cobra.Command{
			Use:   action + " <loan-id>",
			Short: strings.ToUpper(action[:1]) + action[1:] + " a pending loan",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return newAPIClient(opts, cmd.OutOrStdout()).do(cmd.Context(), http.MethodPost,
					"/api/v1/admin/loans/"+args[0]+"/"+action, nil)
			},
		})
	}

	return cmd
}

func fundsCmd(opts *options) *cobra.Command {
	var balance, bonus string

	cmd := &cobra.Command{
		Use:   "add-funds <account-id>",
		Short: "Adjust an account's balance and bonus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deltaBalance, err := parseAmount("balance", balance)
			if err != nil {
				return err
			}
			deltaBonus, err := parseAmount("bonus", bonus)
			if err != nil {
				return err
			}
			return newAPIClient(opts, cmd.OutOrStdout()).do(cmd.Context(), http.MethodPost,
				"/api/v1/admin/accounts/"+args[0]+"/funds", map[string]any{
					"delta_balance": deltaBalance,
					"delta_bonus":   deltaBonus,
				})
		},
	}
	cmd.Flags().StringVar(&balance, "balance", "0", "Balance delta, may be negative")
	cmd.Flags().StringVar(&bonus, "bonus", "0", "Bonus delta, may be negative")

	return cmd
}

func codeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "code",
		Short: "Withdrawal codes",
	}

	var amount string
	var ttl time.Duration

	issue := &cobra.Command{
		Use:   "issue <account-id>",
		Short: "Issue a one-time withdrawal code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}
			body := map[string]any{"account_id": args[0], "amount": v}
			if ttl > 0 {
				body["ttl_seconds"] = int(ttl / time.Second)
			}
			return newAPIClient(opts, cmd.OutOrStdout()).do(cmd.Context(), http.MethodPost, "/api/v1/admin/withdrawal-codes", body)
		},
	}
	issue.Flags().StringVar(&amount, "amount", "", "Amount the code authorizes")
	issue.Flags().DurationVar(&ttl, "ttl", 0, "Code lifetime (server default when unset)")
	_ = issue.MarkFlagRequired("amount")

	notify := &cobra.Command{
		Use:   "notify-expired",
		Short: "Notify holders of lapsed unused codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newAPIClient(opts, cmd.OutOrStdout()).do(cmd.Context(), http.MethodPost, "/api/v1/admin/withdrawal-codes/notify-expired", nil)
		},
	}

	cmd.AddCommand(issue, notify)
	return cmd
}

func withdrawCmd(opts *options) *cobra.Command {
	var amount, code, option string

	cmd := &cobra.Command{
		Use:   "withdraw <account-id>",
		Short: "Redeem a withdrawal code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}
			return newAPIClient(opts, cmd.OutOrStdout()).do(cmd.Context(), http.MethodPost,
				"/api/v1/accounts/"+args[0]+"/withdraw", map[string]any{
					"amount":         v,
					"code":           code,
					"payment_option": option,
				})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to withdraw")
	cmd.Flags().StringVar(&code, "code", "", "Withdrawal code")
	cmd.Flags().StringVar(&option, "payment-option", "", "Payout option: Bitcoin or Ethereum")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("payment-option")

	return cmd
}

func accrualCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accrual",
		Short: "Accrual engine",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Accrue every active investment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newAPIClient(opts, cmd.OutOrStdout()).do(cmd.Context(), http.MethodPost, "/api/v1/admin/accrual/run", nil)
		},
	})

	return cmd
}

func retentionCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retention",
		Short: "Retention sweep",
	}

	var dryRun bool
	sweep := &cobra.Command{
		Use:   "sweep",
		Short: "Delete records past their retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/admin/retention/sweep"
			if dryRun {
				path += "?dry_run=true"
			}
			return newAPIClient(opts, cmd.OutOrStdout()).do(cmd.Context(), http.MethodPost, path, nil)
		},
	}
	sweep.Flags().BoolVar(&dryRun, "dry-run", false, "Only count matching records")

	cmd.AddCommand(sweep)
	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL, path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&path, "path", envOr("MIGRATIONS_PATH", "migrations"), "Migrations directory")

	migrator := func(cmd *cobra.Command) (*postgres.Migrator, error) {
		if databaseURL == "" {
			return nil, errors.New("--database-url or DATABASE_URL is required")
		}
		log := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
		return postgres.NewMigrator(databaseURL, path, log), nil
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			return m.Up()
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			return m.Down()
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %v)\n", v, dirty)
			return nil
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func tokenCmd() *cobra.Command {
	var secret, subject, email, role string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("--secret or JWT_SECRET is required")
			}
			token, err := auth.NewJWTManager(secret, ttl).Generate(&domain.User{
				ID:    subject,
				Email: email,
				Role:  domain.Role(role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC signing secret")
	cmd.Flags().StringVar(&subject, "subject", "", "User ID; for investors this is the account ID")
	cmd.Flags().StringVar(&email, "email", "", "User email")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "admin or investor")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
	out     io.Writer
}

func newAPIClient(opts *options, out io.Writer) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(opts.baseURL, "/"),
		token:   opts.token,
		http:    &http.Client{Timeout: opts.timeout},
		out:     out,
	}
}

// do sends the request and prints the JSON answer. POSTs carry a fresh
// idempotency key so a retried command cannot double-apply.
func (c *apiClient) do(ctx context.Context, method, path string, body any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if method == http.MethodPost {
		req.Header.Set(idempotencyKeyHeader, ulid.Make().String())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	printJSON(c.out, raw)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: %s", errRequestFailed, resp.Status)
	}
	return nil
}

// printJSON indents raw when it is JSON and prints it verbatim otherwise.
func printJSON(w io.Writer, raw []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		fmt.Fprintln(w, strings.TrimSpace(string(raw)))
		return
	}
	fmt.Fprintln(w, buf.String())
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	return v, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
