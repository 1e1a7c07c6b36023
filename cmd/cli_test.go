package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/bnema/admin-dashboard-cli/internal/version"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliTestToken = "cli-token"

func TestVersionPrintsBuildVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", stdout)
}

func TestProtectedCommandsRequireLogin(t *testing.T) {
	newCLIAPI(t)
	home := t.TempDir()

	for _, args := range [][]string{
		{"tasks", "list"},
		{"users", "list"},
		{"roles", "permissions"},
		{"activity"},
		{"dashboard"},
		{"whoami"},
	} {
		_, _, err := executeCLI(t, home, args...)
		require.Error(t, err, args)
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated, args)
		assert.Contains(t, err.Error(), "ad login", args)
	}
}

func TestLoginPersistsSessionAndRecordsProfile(t *testing.T) {
	newCLIAPI(t)
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "login", "--email", "alice@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed in as Alice (profile default)")

	stdout, _, err = executeCLI(t, home, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Alice")
	assert.Contains(t, stdout, "email:   alice@example.com")
	assert.Contains(t, stdout, "profile: default")

	info, err := os.Stat(filepath.Join(home, ".admin-dashboard", "secrets", "admin", "default", "token"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	profiles, err := os.ReadFile(filepath.Join(home, ".admin-dashboard", "profiles.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(profiles), "email = 'alice@example.com'")
	assert.Contains(t, string(profiles), "last_login_at = ")
}

func TestLoginPromptsForMissingCredentials(t *testing.T) {
	newCLIAPI(t)
	home := t.TempDir()

	stdout, stderr, err := executeCLIWithInput(t, home, "alice@example.com\nsecret\n", "login")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Email: ")
	assert.Contains(t, stderr, "Password: ")
	assert.Contains(t, stdout, "Signed in as Alice")
}

func TestLoginWithWrongPasswordReportsServerMessage(t *testing.T) {
	newCLIAPI(t)
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "login", "--email", "alice@example.com", "--password", "nope")
	require.Error(t, err)
	assert.Equal(t, "login failed: Invalid credentials", err.Error())

	_, _, err = executeCLI(t, home, "whoami")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestLoginWhileSignedInRedirectsHome(t *testing.T) {
	api := newCLIAPI(t)
	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "login", "--email", "bob@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Already signed in as Alice")
	assert.Equal(t, 1, api.loginCount())
}

func TestLogoutClearsSession(t *testing.T) {
	newCLIAPI(t)
	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed out of profile default")

	_, err = os.Stat(filepath.Join(home, ".admin-dashboard", "secrets", "admin", "default", "token"))
	assert.True(t, os.IsNotExist(err))

	_, _, err = executeCLI(t, home, "tasks", "list")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestProfilesKeepSeparateSessions(t *testing.T) {
	newCLIAPI(t)
	home := t.TempDir()
	loginCLI(t, home)

	_, _, err := executeCLI(t, home, "--profile", "staging", "whoami")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, _, err = executeCLI(t, home, "--profile", "../escape", "whoami")
	assert.ErrorContains(t, err, "invalid profile name")
}

func TestTasksListRendersPage(t *testing.T) {
	api := newCLIAPI(t)
	api.addTasks("Write docs", "Ship release", "Fix login")
	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "tasks", "list", "--per-page", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Tasks")
	assert.Contains(t, stdout, "page 1/2 · 3 total · 2 per page")
	assert.Contains(t, stdout, "Write docs")
	assert.NotContains(t, stdout, "Fix login")
	assert.Contains(t, stdout, "--page 2 for next")
}

func TestTasksListJSONAndSearch(t *testing.T) {
	api := newCLIAPI(t)
	api.addTasks("Write docs", "Ship release", "Fix docs")
	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "tasks", "list", "--search", "docs", "--json")
	require.NoError(t, err)

	var out pageOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Data, 2)
	assert.Equal(t, "Write docs", out.Data[0].String("title"))
	assert.Equal(t, 2, out.Meta.TotalItems)
	assert.Equal(t, "docs", api.lastSearch())
}

func TestTasksCreateUpdateDeleteRoundTrip(t *testing.T) {
	api := newCLIAPI(t)
	api.addTasks("Write docs")
	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "tasks", "create", "--data", `{"title":"Ship release"}`)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created task")
	assert.Contains(t, stdout, "2 total")

	stdout, _, err = executeCLI(t, home, "tasks", "update", "2", "--data", `{"title":"Ship v2"}`)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Updated task 2")
	assert.Contains(t, stdout, "Ship v2")

	stdout, _, err = executeCLI(t, home, "tasks", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Deleted task 1")
	assert.Contains(t, stdout, "1 total")
	assert.Equal(t, []string{"Ship v2"}, api.taskTitles())
}

func TestTasksCreateValidationErrorPrintsFields(t *testing.T) {
	api := newCLIAPI(t)
	home := t.TempDir()
	loginCLI(t, home)

	_, stderr, err := executeCLI(t, home, "tasks", "create", "--data", `{"title":""}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create task")
	assert.Contains(t, stderr, "title: The title field is required.")
	assert.Empty(t, api.taskTitles())
}

func TestTasksCreateRejectsNonObjectData(t *testing.T) {
	newCLIAPI(t)
	home := t.TempDir()
	loginCLI(t, home)

	_, _, err := executeCLI(t, home, "tasks", "create", "--data", `["x"]`)
	assert.ErrorContains(t, err, "--data must be a JSON object")

	_, _, err = executeCLI(t, home, "tasks", "create")
	assert.ErrorContains(t, err, `required flag(s) "data" not set`)
}

func TestServerErrorIsReportedWithResourceName(t *testing.T) {
	newCLIAPI(t)
	home := t.TempDir()
	loginCLI(t, home)

	_, _, err := executeCLI(t, home, "users", "list")
	require.Error(t, err)
	assert.Equal(t, "Error fetching users: Database unavailable", err.Error())
}

func TestRevokedTokenEndsSession(t *testing.T) {
	api := newCLIAPI(t)
	api.addTasks("Write docs")
	home := t.TempDir()
	loginCLI(t, home)

	api.expireTokens()

	_, _, err := executeCLI(t, home, "tasks", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Contains(t, err.Error(), "session expired")

	_, _, err = executeCLI(t, home, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `ad login` first")
}

func TestRolesPermissions(t *testing.T) {
	newCLIAPI(t)
	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "roles", "permissions")
	require.NoError(t, err)
	assert.Equal(t, "manage tasks\nmanage users\n", stdout)
}

func TestActivityFiltersLocally(t *testing.T) {
	api := newCLIAPI(t)
	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "activity", "--search", "alice", "--json")
	require.NoError(t, err)

	var out activityOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, 2, out.TotalFiltered)
	assert.Equal(t, 1, out.Page)
	require.Len(t, out.Activities, 2)
	assert.Equal(t, "Task created", out.Activities[0].Description)
	assert.Equal(t, 1, api.activityFetches())

	stdout, _, err = executeCLI(t, home, "activity", "--type", "delete")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 matching · page 1/1 · type delete")
	assert.Contains(t, stdout, "User deleted")
	assert.Contains(t, stdout, "by Bob")
}

func TestActivityRejectsUnknownType(t *testing.T) {
	newCLIAPI(t)
	home := t.TempDir()
	loginCLI(t, home)

	_, _, err := executeCLI(t, home, "activity", "--type", "archived")
	assert.ErrorContains(t, err, `unsupported activity type "archived"`)
}

func TestDashboardShowsTotals(t *testing.T) {
	api := newCLIAPI(t)
	api.addTasks("Write docs", "Ship release")
	home := t.TempDir()
	loginCLI(t, home)

	stdout, _, err := executeCLI(t, home, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, stdout, "signed in as Alice")
	assert.Contains(t, stdout, "Total tasks")
	assert.Contains(t, stdout, "Error fetching users: Database unavailable")
}

func TestNavReflectsSession(t *testing.T) {
	newCLIAPI(t)
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "nav")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Navigation")
	assert.Contains(t, stdout, "-> /login")

	loginCLI(t, home)

	stdout, _, err = executeCLI(t, home, "nav")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "-> /login")
	assert.Equal(t, 5, strings.Count(stdout, "open"))
}

func loginCLI(t *testing.T, home string) {
	t.Helper()

	_, _, err := executeCLI(t, home, "login", "--email", "alice@example.com", "--password", "secret")
	require.NoError(t, err)
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithInput(t, home, "", args...)
}

func executeCLIWithInput(t *testing.T, home string, input string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("AD_SECRETS_BACKEND", "file")

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetIn(strings.NewReader(input))
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// cliAPI is an in-memory admin API. Users always fail so error paths can be
// exercised next to working resources.
type cliAPI struct {
	mu        sync.Mutex
	tasks     []map[string]any
	nextID    int
	logins    int
	revoked   bool
	search    string
	feedCalls int
}

func newCLIAPI(t *testing.T) *cliAPI {
	t.Helper()

	fake := &cliAPI{nextID: 1}
	router := mux.NewRouter()
	sub := router.PathPrefix("/api").Subrouter()
	sub.HandleFunc("/login", fake.login).Methods(http.MethodPost)
	sub.HandleFunc("/tasks", fake.authed(fake.listTasks)).Methods(http.MethodGet)
	sub.HandleFunc("/tasks", fake.authed(fake.createTask)).Methods(http.MethodPost)
	sub.HandleFunc("/tasks/{id}", fake.authed(fake.updateTask)).Methods(http.MethodPut)
	sub.HandleFunc("/tasks/{id}", fake.authed(fake.deleteTask)).Methods(http.MethodDelete)
	sub.HandleFunc("/users", fake.authed(fake.failUsers)).Methods(http.MethodGet)
	sub.HandleFunc("/permissions", fake.authed(fake.listPermissions)).Methods(http.MethodGet)
	sub.HandleFunc("/activities", fake.authed(fake.listActivities)).Methods(http.MethodGet)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	t.Setenv("AD_API_BASE_URL", server.URL+"/api")

	return fake
}

func (f *cliAPI) addTasks(titles ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, title := range titles {
		f.tasks = append(f.tasks, map[string]any{"id": f.nextID, "title": title})
		f.nextID++
	}
}

func (f *cliAPI) taskTitles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	titles := []string{}
	for _, task := range f.tasks {
		titles = append(titles, task["title"].(string))
	}
	return titles
}

func (f *cliAPI) expireTokens() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = true
}

func (f *cliAPI) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

func (f *cliAPI) lastSearch() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.search
}

func (f *cliAPI) activityFetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feedCalls
}

func (f *cliAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		revoked := f.revoked
		f.mu.Unlock()

		if revoked || r.Header.Get("Authorization") != "Bearer "+cliTestToken {
			writeTestJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
			return
		}
		next(w, r)
	}
}

func (f *cliAPI) login(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body["password"] != "secret" {
		writeTestJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
		return
	}

	f.mu.Lock()
	f.logins++
	f.mu.Unlock()

	writeTestJSON(w, http.StatusOK, map[string]any{
		"token": cliTestToken,
		"user":  map[string]any{"id": 1, "name": "Alice", "email": body["email"]},
	})
}

func (f *cliAPI) listTasks(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	search := r.URL.Query().Get("search")
	f.search = search
	matched := []map[string]any{}
	for _, task := range f.tasks {
		if search == "" || strings.Contains(task["title"].(string), search) {
			matched = append(matched, task)
		}
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	start := min((page-1)*perPage, len(matched))
	end := min(start+perPage, len(matched))

	writeTestJSON(w, http.StatusOK, map[string]any{
		"data": matched[start:end],
		"meta": map[string]any{
			"current_page": page,
			"last_page":    max(1, (len(matched)+perPage-1)/perPage),
			"total":        len(matched),
			"per_page":     perPage,
		},
	})
}

func (f *cliAPI) createTask(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	title, _ := body["title"].(string)
	if title == "" {
		writeTestJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors":  map[string][]string{"title": {"The title field is required."}},
		})
		return
	}

	f.mu.Lock()
	task := map[string]any{"id": f.nextID, "title": title}
	f.tasks = append(f.tasks, task)
	f.nextID++
	f.mu.Unlock()

	writeTestJSON(w, http.StatusCreated, map[string]any{"data": task})
}

func (f *cliAPI) updateTask(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	id := mux.Vars(r)["id"]

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, task := range f.tasks {
		if strconv.Itoa(task["id"].(int)) == id {
			task["title"] = body["title"]
			writeTestJSON(w, http.StatusOK, map[string]any{"data": task})
			return
		}
	}
	writeTestJSON(w, http.StatusNotFound, map[string]any{"message": "Task not found"})
}

func (f *cliAPI) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.tasks[:0]
	for _, task := range f.tasks {
		if strconv.Itoa(task["id"].(int)) != id {
			kept = append(kept, task)
		}
	}
	f.tasks = kept
	w.WriteHeader(http.StatusNoContent)
}

func (f *cliAPI) failUsers(w http.ResponseWriter, _ *http.Request) {
	writeTestJSON(w, http.StatusInternalServerError, map[string]any{"message": "Database unavailable"})
}

func (f *cliAPI) listPermissions(w http.ResponseWriter, _ *http.Request) {
	writeTestJSON(w, http.StatusOK, []any{"manage tasks", map[string]any{"id": 2, "name": "manage users"}})
}

func (f *cliAPI) listActivities(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	f.feedCalls++
	f.mu.Unlock()

	writeTestJSON(w, http.StatusOK, map[string]any{
		"activities": []map[string]any{
			{"id": 1, "description": "Task created", "causer": map[string]any{"name": "Alice"}, "created_at": "2026-01-02T10:00:00Z"},
			{"id": 2, "description": "Role updated", "causer": map[string]any{"name": "Alice"}, "created_at": "2026-01-02T09:00:00Z"},
			{"id": 3, "description": "User deleted", "causer": map[string]any{"name": "Bob"}, "created_at": "2026-01-02T08:00:00Z"},
			{"id": 4, "description": "Settings changed", "created_at": "2026-01-02T07:00:00Z"},
		},
	})
}

func writeTestJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
