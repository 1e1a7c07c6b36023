package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	activityview "github.com/bnema/admin-dashboard-cli/internal/adapters/render/activity"
	"github.com/bnema/admin-dashboard-cli/internal/application"
	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/bnema/admin-dashboard-cli/internal/ports"
	"github.com/spf13/cobra"
)

type activityOutput struct {
	Activities    []domain.Activity `json:"activities"`
	TotalFiltered int               `json:"total_filtered"`
	Page          int               `json:"page"`
	TotalPages    int               `json:"total_pages"`
}

func newActivityCmd(app *app) *cobra.Command {
	var opts listOptions
	var activityType string

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the activity feed",
		Long:  "Fetches the whole activity log once and filters it locally by search text (description or causer name) and type.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			feed := app.activity
			if opts.perPage > 0 {
				if err := feed.SetItemsPerPage(opts.perPage); err != nil {
					return err
				}
			}
			if err := feed.SetSelectedType(activityType); err != nil {
				return err
			}

			err := runFetch(cmd, opts.asJSON, "Fetching activity...", feed.FetchAll)
			if sessionErr := app.requireSession(); sessionErr != nil {
				return sessionErr
			}
			if err != nil {
				return activityError(err)
			}

			feed.SetSearchQuery(opts.search)
			feed.SetPage(opts.page)

			if opts.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(activityOutput{
					Activities:    feed.VisiblePage(),
					TotalFiltered: feed.TotalFilteredCount(),
					Page:          feed.View().CurrentPage,
					TotalPages:    feed.TotalPages(),
				})
			}

			rendered, err := activityview.Render(feed.View(), activityview.RenderOptions{
				Now: app.now(),
				Err: feed.Err(),
			})
			if err != nil {
				return fmt.Errorf("render activity: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().IntVar(&opts.page, "page", 1, "Page of the filtered feed")
	cmd.Flags().StringVar(&opts.search, "search", "", "Match description or causer name (case-insensitive)")
	cmd.Flags().StringVar(&activityType, "type", domain.ActivityTypeAll, "Activity type: all, create, update, delete or default")
	cmd.Flags().IntVar(&opts.perPage, "per-page", 0, "Items per page (default from activity.items_per_page)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Render JSON output")

	return withRoute(cmd, "/activity")
}

// activityError keeps the feed's message and appends the cause.
func activityError(err error) error {
	var fetchErr *application.FetchError
	if errors.As(err, &fetchErr) {
		return fmt.Errorf("%s: %s", fetchErr.ServerMessage(), ports.ErrorMessage(fetchErr.Err))
	}
	return err
}
