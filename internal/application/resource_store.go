package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/bnema/admin-dashboard-cli/internal/ports"
)

// ResourceSpec describes one paginated collection of the admin API.
type ResourceSpec struct {
	Name           string
	Singular       string
	Path           string
	DefaultPerPage int
}

var (
	TasksResource = ResourceSpec{Name: "tasks", Singular: "task", Path: "/tasks"}
	UsersResource = ResourceSpec{Name: "users", Singular: "user", Path: "/users", DefaultPerPage: 20}
	RolesResource = ResourceSpec{Name: "roles", Singular: "role", Path: "/roles"}
)

func ResourceByName(name string) (ResourceSpec, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case TasksResource.Name:
		return TasksResource, true
	case UsersResource.Name:
		return UsersResource, true
	case RolesResource.Name:
		return RolesResource, true
	default:
		return ResourceSpec{}, false
	}
}

type Filters struct {
	Search  string
	PerPage int
}

type pageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
}

type recordResponse struct {
	Data domain.Record `json:"data"`
}

type pageResponse struct {
	Data []domain.Record `json:"data"`
	Meta *pageMeta       `json:"meta"`
}

// ResourceStore holds one page of a remote collection. Fetch failures are
// recorded in Err and never returned; mutation failures are recorded and
// returned.
type ResourceStore struct {
	spec        ResourceSpec
	client      ports.RemoteClient
	credentials ports.CredentialsSource
	logger      *slog.Logger

	mu          sync.RWMutex
	items       []domain.Record
	pagination  domain.Pagination
	filters     Filters
	errMessage  string
	fieldErrors domain.FieldErrors
	inFlight    int
	seq         uint64
}

func NewResourceStore(spec ResourceSpec, client ports.RemoteClient, credentials ports.CredentialsSource, logger *slog.Logger) *ResourceStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pagination := domain.DefaultPagination()
	if spec.DefaultPerPage > 0 {
		pagination.ItemsPerPage = spec.DefaultPerPage
	}

	return &ResourceStore{
		spec:        spec,
		client:      client,
		credentials: credentials,
		logger:      logger.With("resource", spec.Name),
		pagination:  pagination,
		filters:     Filters{PerPage: spec.DefaultPerPage},
	}
}

func (s *ResourceStore) Spec() ResourceSpec {
	return s.spec
}

// FetchPage replaces the local page with the server's. Only the response
// to the most recently issued fetch is applied.
func (s *ResourceStore) FetchPage(ctx context.Context, page int, filters Filters) {
	if page < 1 {
		page = 1
	}
	if filters.PerPage <= 0 {
		filters.PerPage = s.spec.DefaultPerPage
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.filters = filters
	s.mu.Unlock()

	done := s.begin()
	defer done()

	query := url.Values{"page": {strconv.Itoa(page)}}
	if search := strings.TrimSpace(filters.Search); search != "" {
		query.Set("search", search)
	}
	if filters.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(filters.PerPage))
	}

	var resp pageResponse
	err := s.client.Do(ctx, ports.RemoteRequest{
		Method:      http.MethodGet,
		Path:        s.spec.Path,
		Query:       query,
		Credentials: s.creds(),
	}, &resp)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		s.logger.Debug("discard stale page", "page", page, "seq", seq, "latest", s.seq)
		return
	}
	if err != nil {
		s.errMessage = fmt.Sprintf("Error fetching %s: %s", s.spec.Name, ports.ErrorMessage(err))
		s.logger.Debug("fetch page failed", "page", page, "error", err)
		return
	}

	s.items = resp.Data
	if s.items == nil {
		s.items = []domain.Record{}
	}
	s.pagination = s.paginationFrom(resp, page, filters.PerPage)
	s.errMessage = ""
}

func (s *ResourceStore) paginationFrom(resp pageResponse, page, perPage int) domain.Pagination {
	if resp.Meta == nil {
		return domain.PaginationFor(len(resp.Data), perPage, page)
	}

	return domain.Pagination{
		CurrentPage:  resp.Meta.CurrentPage,
		TotalPages:   resp.Meta.LastPage,
		TotalItems:   resp.Meta.Total,
		ItemsPerPage: resp.Meta.PerPage,
	}
}

func (s *ResourceStore) Create(ctx context.Context, payload any) error {
	return s.mutate(ctx, "create", "creating", ports.RemoteRequest{
		Method: http.MethodPost,
		Path:   s.spec.Path,
		Body:   payload,
	}, nil, nil)
}

// Update replaces the local copy with the canonical record when the server
// echoes one, then refetches the current page. An echo that is not a record
// is ignored; the update itself already succeeded.
func (s *ResourceStore) Update(ctx context.Context, id string, payload any) error {
	var body json.RawMessage
	return s.mutate(ctx, "update", "updating", ports.RemoteRequest{
		Method: http.MethodPut,
		Path:   s.recordPath(id),
		Body:   payload,
	}, &body, func() {
		if len(body) == 0 {
			return
		}
		var resp recordResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			s.logger.Debug("ignore update echo", "resource", s.spec.Name, "id", id, "error", err)
			return
		}
		s.replace(id, resp.Data)
	})
}

func (s *ResourceStore) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete", "deleting", ports.RemoteRequest{
		Method: http.MethodDelete,
		Path:   s.recordPath(id),
	}, nil, nil)
}

func (s *ResourceStore) mutate(ctx context.Context, verb, progressive string, req ports.RemoteRequest, out any, applied func()) error {
	s.mu.Lock()
	s.fieldErrors = nil
	s.mu.Unlock()

	done := s.begin()
	defer done()

	req.Credentials = s.creds()
	if err := s.client.Do(ctx, req, out); err != nil {
		s.mu.Lock()
		if fields, ok := ports.FieldErrorsOf(err); ok {
			s.fieldErrors = fields
		} else {
			s.errMessage = fmt.Sprintf("Error %s %s: %s", progressive, s.spec.Singular, ports.ErrorMessage(err))
		}
		s.mu.Unlock()

		return fmt.Errorf("%s %s: %w", verb, s.spec.Singular, err)
	}
	if applied != nil {
		applied()
	}

	s.mu.RLock()
	page, filters := s.pagination.CurrentPage, s.filters
	s.mu.RUnlock()

	s.FetchPage(ctx, page, filters)
	return nil
}

func (s *ResourceStore) replace(id string, record domain.Record) {
	if record == nil || record.ID() != id {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID() == id {
			s.items[i] = record
			return
		}
	}
}

func (s *ResourceStore) recordPath(id string) string {
	return strings.TrimRight(s.spec.Path, "/") + "/" + url.PathEscape(id)
}

func (s *ResourceStore) creds() ports.Credentials {
	if s.credentials == nil {
		return ports.Credentials{}
	}
	return s.credentials.Credentials()
}

func (s *ResourceStore) begin() func() {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}
}

// Items returns a copy of the current page.
func (s *ResourceStore) Items() []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.Record, len(s.items))
	copy(items, s.items)
	return items
}

// Find returns the record of the current page with the given identity.
func (s *ResourceStore) Find(id string) (domain.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.ID() == id {
			return item, true
		}
	}
	return nil, false
}

func (s *ResourceStore) Pagination() domain.Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

func (s *ResourceStore) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

func (s *ResourceStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight > 0
}

// Err is the display message of the last failed action, empty after a
// successful fetch.
func (s *ResourceStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMessage
}

func (s *ResourceStore) FieldErrors() domain.FieldErrors {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.fieldErrors) == 0 {
		return nil
	}
	fields := make(domain.FieldErrors, len(s.fieldErrors))
	for field, messages := range s.fieldErrors {
		fields[field] = append([]string(nil), messages...)
	}
	return fields
}
