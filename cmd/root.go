package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/admin-dashboard-cli/internal/application"
	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/spf13/cobra"
)

const routeAnnotation = "route"

var (
	errLoginRequired  = fmt.Errorf("%w: run `ad login` first", domain.ErrNotAuthenticated)
	errSessionExpired = fmt.Errorf("%w: session expired, run `ad login` again", domain.ErrNotAuthenticated)
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	app := &app{}
	var opts wireOptions

	rootCmd := &cobra.Command{
		Use:           "ad",
		Short:         "Admin dashboard CLI (ad): manage tasks, users and roles",
		Long:          "ad is a terminal client for the admin dashboard API. It keeps a login session per profile, lists and edits tasks, users and roles, and shows the activity feed.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.stderr = cmd.ErrOrStderr()
			wired, err := wireApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			*app = *wired

			return app.authorize(cmd.Context(), routeFor(cmd))
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.profile, "profile", "", "Profile name (default from config, \"default\")")
	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "API base URL, overrides the profile and config")

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newResourceCmd(app, application.TasksResource, tasksStore),
		newResourceCmd(app, application.UsersResource, usersStore),
		newRolesCmd(app),
		newActivityCmd(app),
		newDashboardCmd(app),
		newNavCmd(app),
	)

	return rootCmd
}

// authorize restores the stored session and runs the route guard for the
// command's route. Commands without a route skip the guard.
func (a *app) authorize(ctx context.Context, route string) error {
	restoreErr := a.session.Restore(ctx)
	if restoreErr != nil {
		a.logger.Warn("restore session", "profile", a.profile.Name, "error", restoreErr)
	}
	a.guard = application.NewGuard(a.session, restoreErr)

	if route == "" {
		return nil
	}

	decision := a.guard.Resolve(route)
	if !decision.Allow && decision.Redirect == domain.LoginPath {
		return errLoginRequired
	}

	return nil
}

// requireSession reports a session the server revoked while the command
// ran.
func (a *app) requireSession() error {
	if !a.session.IsAuthenticated() {
		return errSessionExpired
	}
	return nil
}

func routeFor(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if route, ok := c.Annotations[routeAnnotation]; ok {
			return route
		}
	}
	return ""
}

func withRoute(cmd *cobra.Command, route string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[routeAnnotation] = route
	return cmd
}

func storeError(message string) error {
	if message == "" {
		return nil
	}
	return errors.New(message)
}
