// Package cli implements the invoicectl command tree on top of the API
// client and the form controller.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaurav7717/PurchaseInvoice/internal/api"
	"github.com/gaurav7717/PurchaseInvoice/internal/config"
)

// App carries the shared state of one CLI invocation.
type App struct {
	cfg    config.Client
	client *api.Client
}

// NewRootCmd builds the invoicectl command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	root := &cobra.Command{
		Use:           "invoicectl",
		Short:         "Manage purchase invoices and vendors",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			if flag := cmd.Flags().Lookup("api-url"); flag != nil && flag.Changed {
				cfg.BaseURL = flag.Value.String()
			}
			app.cfg = cfg
			app.client = api.NewClient(cfg.BaseURL)
			if token, err := app.loadToken(); err == nil && token != "" {
				app.client.SetToken(token)
			}
			return nil
		},
	}
	root.PersistentFlags().String("api-url", "", "invoice service base URL (overrides INVOICE_API_URL)")

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newInvoiceCmd(app),
		newVendorCmd(app),
	)
	return root
}

func (a *App) loadToken() (string, error) {
	raw, err := os.ReadFile(a.cfg.TokenFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func (a *App) saveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(a.cfg.TokenFile), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(a.cfg.TokenFile, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (a *App) clearToken() error {
	if err := os.Remove(a.cfg.TokenFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, payload any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// splitPair parses a field=value argument.
func splitPair(raw string) (string, string, error) {
	field, value, ok := strings.Cut(raw, "=")
	if !ok || strings.TrimSpace(field) == "" {
		return "", "", fmt.Errorf("expected field=value, got %q", raw)
	}
	return strings.TrimSpace(field), value, nil
}
