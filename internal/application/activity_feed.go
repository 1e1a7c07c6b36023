package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/bnema/admin-dashboard-cli/internal/ports"
)

const (
	activitiesPath          = "/activities"
	activitiesFailedMessage = "Failed to load activities"
)

type FeedState string

const (
	FeedIdle    FeedState = "idle"
	FeedLoading FeedState = "loading"
	FeedLoaded  FeedState = "loaded"
	FeedError   FeedState = "error"
)

// FetchError reports a failed activity fetch. The previously loaded list
// is kept.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch activities: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) ServerMessage() string {
	return activitiesFailedMessage
}

type wireActivity struct {
	ID          domain.EntityID `json:"id"`
	Description string          `json:"description"`
	Causer      *domain.Causer  `json:"causer"`
	Type        string          `json:"type"`
	CreatedAt   string          `json:"created_at"`
	Timestamp   string          `json:"timestamp"`
}

func (w wireActivity) toDomain() domain.Activity {
	activity := domain.Activity{
		ID:          w.ID,
		Description: w.Description,
		Causer:      w.Causer,
		Type:        strings.ToLower(strings.TrimSpace(w.Type)),
		Timestamp:   w.CreatedAt,
	}
	if activity.Timestamp == "" {
		activity.Timestamp = w.Timestamp
	}
	if activity.Type == "" {
		activity.Type = string(domain.CategoryOf(w.Description))
	}
	return activity
}

// ActivityFeed loads the whole activity log in one call and pages, searches
// and filters it locally.
type ActivityFeed struct {
	client      ports.RemoteClient
	credentials ports.CredentialsSource
	logger      *slog.Logger

	mu           sync.RWMutex
	activities   []domain.Activity
	state        FeedState
	errMessage   string
	searchQuery  string
	selectedType string
	currentPage  int
	itemsPerPage int
}

func NewActivityFeed(client ports.RemoteClient, credentials ports.CredentialsSource, itemsPerPage int, logger *slog.Logger) *ActivityFeed {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if itemsPerPage <= 0 {
		itemsPerPage = domain.DefaultItemsPerPage
	}

	return &ActivityFeed{
		client:       client,
		credentials:  credentials,
		logger:       logger,
		activities:   []domain.Activity{},
		state:        FeedIdle,
		selectedType: domain.ActivityTypeAll,
		currentPage:  1,
		itemsPerPage: itemsPerPage,
	}
}

func (f *ActivityFeed) FetchAll(ctx context.Context) error {
	f.mu.Lock()
	f.state = FeedLoading
	f.errMessage = ""
	f.mu.Unlock()

	var creds ports.Credentials
	if f.credentials != nil {
		creds = f.credentials.Credentials()
	}

	var resp struct {
		Activities []wireActivity `json:"activities"`
	}
	err := f.client.Do(ctx, ports.RemoteRequest{
		Method:      http.MethodGet,
		Path:        activitiesPath,
		Credentials: creds,
	}, &resp)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.state = FeedError
		f.errMessage = activitiesFailedMessage
		f.logger.Debug("fetch activities failed", "error", err)
		return &FetchError{Err: err}
	}

	activities := make([]domain.Activity, 0, len(resp.Activities))
	for _, raw := range resp.Activities {
		activities = append(activities, raw.toDomain())
	}
	f.activities = activities
	f.currentPage = 1
	f.state = FeedLoaded

	return nil
}

// View returns an immutable snapshot of the list and the filter state.
func (f *ActivityFeed) View() domain.ActivityView {
	f.mu.RLock()
	defer f.mu.RUnlock()

	activities := make([]domain.Activity, len(f.activities))
	copy(activities, f.activities)

	return domain.ActivityView{
		Activities:   activities,
		SearchQuery:  f.searchQuery,
		SelectedType: f.selectedType,
		CurrentPage:  f.currentPage,
		ItemsPerPage: f.itemsPerPage,
	}
}

func (f *ActivityFeed) VisiblePage() []domain.Activity {
	return f.View().VisiblePage()
}

func (f *ActivityFeed) TotalFilteredCount() int {
	return f.View().TotalFilteredCount()
}

func (f *ActivityFeed) TotalPages() int {
	return f.View().TotalPages()
}

// SetSearchQuery always resets the page, even when the query is unchanged.
func (f *ActivityFeed) SetSearchQuery(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchQuery = query
	f.currentPage = 1
}

func (f *ActivityFeed) SetSelectedType(activityType string) error {
	parsed, err := domain.ParseActivityType(activityType)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectedType = parsed
	f.currentPage = 1
	return nil
}

func (f *ActivityFeed) SetItemsPerPage(n int) error {
	if n <= 0 {
		return fmt.Errorf("items per page must be positive, got %d", n)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.itemsPerPage = n
	f.currentPage = 1
	return nil
}

// SetPage is not clamped; a page past the end shows nothing.
func (f *ActivityFeed) SetPage(page int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.currentPage = page
}

func (f *ActivityFeed) State() FeedState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

func (f *ActivityFeed) Loading() bool {
	return f.State() == FeedLoading
}

func (f *ActivityFeed) Err() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.errMessage
}
