package cmd

import (
	"context"
	"fmt"

	dashboardview "github.com/bnema/admin-dashboard-cli/internal/adapters/render/dashboard"
	navview "github.com/bnema/admin-dashboard-cli/internal/adapters/render/nav"
	"github.com/bnema/admin-dashboard-cli/internal/adapters/render/theme"
	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show user and task totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Loading dashboard...", func(ctx context.Context) error {
				app.dashboard.Refresh(ctx)
				return nil
			})
			if err != nil {
				return err
			}
			if err := app.requireSession(); err != nil {
				return err
			}

			rendered, err := dashboardview.Render(dashboardview.Summary{
				User:       app.session.User(),
				TotalUsers: app.dashboard.TotalUsers(),
				TotalTasks: app.dashboard.TotalTasks(),
				Errors:     app.dashboard.Errors(),
			})
			if err != nil {
				return fmt.Errorf("render dashboard: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	return withRoute(cmd, domain.HomePath)
}

func newNavCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "Show the navigation menu and where each entry leads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := make([]navview.Entry, 0, len(theme.NavMenu))
			for _, item := range theme.NavMenu {
				decision := app.guard.Resolve(string(item.Route))
				entries = append(entries, navview.Entry{
					Item:     item,
					Path:     decision.Target,
					Allowed:  decision.Allow,
					Redirect: decision.Redirect,
				})
			}

			rendered, err := navview.Render(entries)
			if err != nil {
				return fmt.Errorf("render navigation: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}
