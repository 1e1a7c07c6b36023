package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/admin-dashboard-cli/internal/application"
	"github.com/spf13/cobra"
)

func newRolesCmd(app *app) *cobra.Command {
	cmd := newResourceCmd(app, application.RolesResource, rolesStore)
	cmd.AddCommand(newRolePermissionsCmd(app))

	return cmd
}

func newRolePermissionsCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "List the permissions roles can be granted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.roles.FetchPermissions(cmd.Context())
			if err := app.requireSession(); err != nil {
				return err
			}
			if err := storeError(app.roles.Err()); err != nil {
				return err
			}

			names := app.roles.PermissionNames()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(names)
			}

			out := cmd.OutOrStdout()
			if len(names) == 0 {
				_, err := fmt.Fprintln(out, "No permissions found.")
				return err
			}
			for _, name := range names {
				if _, err := fmt.Fprintln(out, name); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
