package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/admin-dashboard-cli/internal/adapters/render/records"
	"github.com/bnema/admin-dashboard-cli/internal/application"
	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/spf13/cobra"
)

// storeFunc reads a store from the app once the root command has wired it.
type storeFunc func(*app) *application.ResourceStore

func tasksStore(a *app) *application.ResourceStore { return a.tasks }
func usersStore(a *app) *application.ResourceStore { return a.users }
func rolesStore(a *app) *application.ResourceStore { return a.roles.ResourceStore }

type listOptions struct {
	page    int
	search  string
	perPage int
	asJSON  bool
}

type pageOutput struct {
	Data []domain.Record   `json:"data"`
	Meta domain.Pagination `json:"meta"`
}

func newResourceCmd(app *app, spec application.ResourceSpec, store storeFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   spec.Name,
		Short: fmt.Sprintf("List and edit %s", spec.Name),
	}

	cmd.AddCommand(
		newResourceListCmd(app, spec, store),
		newResourceCreateCmd(app, spec, store),
		newResourceUpdateCmd(app, spec, store),
		newResourceDeleteCmd(app, spec, store),
	)

	return withRoute(cmd, spec.Path)
}

func newResourceListCmd(app *app, spec application.ResourceSpec, store storeFunc) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List a page of %s", spec.Name),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := store(app)
			err := runFetch(cmd, opts.asJSON, fmt.Sprintf("Fetching %s...", spec.Name), func(ctx context.Context) error {
				s.FetchPage(ctx, opts.page, application.Filters{Search: opts.search, PerPage: opts.perPage})
				return nil
			})
			if err != nil {
				return err
			}
			if err := app.requireSession(); err != nil {
				return err
			}
			if err := storeError(s.Err()); err != nil {
				return err
			}

			return writePage(cmd.OutOrStdout(), s, opts.asJSON)
		},
	}

	addListFlags(cmd, &opts, spec.DefaultPerPage)

	return cmd
}

func newResourceCreateCmd(app *app, spec application.ResourceSpec, store storeFunc) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s from a JSON object", spec.Singular),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := parsePayload(data)
			if err != nil {
				return err
			}

			s := store(app)
			if err := s.Create(cmd.Context(), payload); err != nil {
				return mutationError(cmd, app, s, err)
			}

			return writeMutationResult(cmd, s, fmt.Sprintf("Created %s", spec.Singular))
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "Record fields as a JSON object")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func newResourceUpdateCmd(app *app, spec application.ResourceSpec, store storeFunc) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Replace the fields of a %s", spec.Singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := parsePayload(data)
			if err != nil {
				return err
			}

			s := store(app)
			if err := s.Update(cmd.Context(), args[0], payload); err != nil {
				return mutationError(cmd, app, s, err)
			}

			return writeMutationResult(cmd, s, fmt.Sprintf("Updated %s %s", spec.Singular, args[0]))
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "Record fields as a JSON object")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func newResourceDeleteCmd(app *app, spec application.ResourceSpec, store storeFunc) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete a %s", spec.Singular),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := store(app)
			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return mutationError(cmd, app, s, err)
			}

			return writeMutationResult(cmd, s, fmt.Sprintf("Deleted %s %s", spec.Singular, args[0]))
		},
	}
}

func addListFlags(cmd *cobra.Command, opts *listOptions, defaultPerPage int) {
	cmd.Flags().IntVar(&opts.page, "page", 1, "Page number")
	cmd.Flags().StringVar(&opts.search, "search", "", "Server-side search term")
	cmd.Flags().IntVar(&opts.perPage, "per-page", defaultPerPage, "Items per page (0 uses the server default)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Render JSON output")
}

// runFetch runs fetch behind a spinner unless the output is JSON.
func runFetch(cmd *cobra.Command, asJSON bool, label string, fetch func(context.Context) error) error {
	if asJSON {
		return fetch(cmd.Context())
	}
	return runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), label, fetch)
}

func parsePayload(data string) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("--data must be a JSON object: %w", err)
	}
	if payload == nil {
		return nil, errors.New("--data must be a JSON object")
	}
	return payload, nil
}

// mutationError prints the server's field errors to stderr and returns err.
// A revoked session takes precedence.
func mutationError(cmd *cobra.Command, app *app, store *application.ResourceStore, err error) error {
	if sessionErr := app.requireSession(); sessionErr != nil {
		return sessionErr
	}

	fields := store.FieldErrors()
	for _, name := range fields.Fields() {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", name, strings.Join(fields[name], ", "))
	}

	return err
}

func writeMutationResult(cmd *cobra.Command, store *application.ResourceStore, message string) error {
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), message); err != nil {
		return err
	}
	if msg := store.Err(); msg != "" {
		_, err := fmt.Fprintln(cmd.ErrOrStderr(), msg)
		return err
	}

	return writePage(cmd.OutOrStdout(), store, false)
}

func writePage(out io.Writer, store *application.ResourceStore, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(pageOutput{Data: store.Items(), Meta: store.Pagination()})
	}

	rendered, err := records.Render(records.Page{
		Resource:    store.Spec().Name,
		Items:       store.Items(),
		Pagination:  store.Pagination(),
		Err:         store.Err(),
		FieldErrors: store.FieldErrors(),
	}, records.RenderOptions{})
	if err != nil {
		return fmt.Errorf("render %s: %w", store.Spec().Name, err)
	}

	_, err = fmt.Fprintln(out, rendered)
	return err
}
