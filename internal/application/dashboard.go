package application

import "context"

// Dashboard aggregates the totals of the users and tasks collections.
type Dashboard struct {
	Users *ResourceStore
	Tasks *ResourceStore
}

func NewDashboard(users, tasks *ResourceStore) *Dashboard {
	return &Dashboard{Users: users, Tasks: tasks}
}

// Refresh fetches the first page of users, then of tasks.
func (d *Dashboard) Refresh(ctx context.Context) {
	for _, store := range []*ResourceStore{d.Users, d.Tasks} {
		store.FetchPage(ctx, 1, store.Filters())
	}
}

func (d *Dashboard) TotalUsers() int {
	return d.Users.Pagination().TotalItems
}

func (d *Dashboard) TotalTasks() int {
	return d.Tasks.Pagination().TotalItems
}

func (d *Dashboard) Loading() bool {
	return d.Users.Loading() || d.Tasks.Loading()
}

// Errors returns the non-empty fetch errors of both collections.
func (d *Dashboard) Errors() []string {
	var errs []string
	for _, store := range []*ResourceStore{d.Users, d.Tasks} {
		if msg := store.Err(); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}
