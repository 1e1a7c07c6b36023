package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/bnema/admin-dashboard-cli/internal/ports"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(app *app) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session for the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if decision := app.guard.Resolve(domain.LoginPath); decision.Redirect == domain.HomePath {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Already signed in as %s\n", displayName(app.session.User()))
				return err
			}

			input := bufio.NewReader(cmd.InOrStdin())
			if strings.TrimSpace(email) == "" {
				prompted, err := promptLine(cmd, input, "Email: ")
				if err != nil {
					return err
				}
				email = prompted
			}
			if password == "" {
				prompted, err := promptPassword(cmd, input, "Password: ")
				if err != nil {
					return err
				}
				password = prompted
			}

			var ok bool
			err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Signing in...", func(ctx context.Context) error {
				ok = app.session.Login(ctx, email, password)
				return nil
			})
			if err != nil {
				return err
			}
			if !ok {
				return loginError(app.session.LastError())
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (profile %s)\n", displayName(app.session.User()), app.profile.Name)
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted when omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted without echo when omitted)")

	return withRoute(cmd, domain.LoginPath)
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session for the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.session.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Signed out of profile %s\n", app.profile.Name)
			return err
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user := app.session.User()
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "%s\n", displayName(user)); err != nil {
				return err
			}
			if user != nil && user.Email != "" && user.Email != displayName(user) {
				if _, err := fmt.Fprintf(out, "email:   %s\n", user.Email); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintf(out, "profile: %s\napi:     %s\n", app.profile.Name, app.profile.BaseURL)
			return err
		},
	}

	return withRoute(cmd, domain.HomePath)
}

func loginError(err error) error {
	if err == nil {
		return errors.New("login failed")
	}
	return fmt.Errorf("login failed: %s", ports.ErrorMessage(err))
}

func displayName(user *domain.UserIdentity) string {
	if user == nil {
		return "unknown user"
	}
	return user.DisplayName()
}

func promptLine(cmd *cobra.Command, input *bufio.Reader, label string) (string, error) {
	if _, err := fmt.Fprint(cmd.ErrOrStderr(), label); err != nil {
		return "", err
	}

	line, err := input.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo when stdin is a terminal.
func promptPassword(cmd *cobra.Command, input *bufio.Reader, label string) (string, error) {
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return promptLine(cmd, input, label)
	}

	if _, err := fmt.Fprint(cmd.ErrOrStderr(), label); err != nil {
		return "", err
	}
	raw, err := term.ReadPassword(int(in.Fd()))
	_, _ = fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}
