package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the invoice service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Username: ")
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read username: %w", err)
				}
				username = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			token, err := app.client.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if err := app.saveToken(token); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored login token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.clearToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}
