package application

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/bnema/admin-dashboard-cli/internal/adapters/api"
	"github.com/gorilla/mux"
)

const fakeToken = "fake-token"

// fakeAdminAPI is an in-memory admin API speaking the paginated JSON shape
// of the real service.
type fakeAdminAPI struct {
	mu         sync.Mutex
	tasks      []map[string]any
	nextID     int
	activities []map[string]any
	rejectAll  bool
}

func newFakeAdminAPI(t *testing.T) (*fakeAdminAPI, *api.Client) {
	t.Helper()

	fake := &fakeAdminAPI{nextID: 1}
	router := mux.NewRouter()
	sub := router.PathPrefix("/api").Subrouter()
	sub.HandleFunc("/login", fake.login).Methods(http.MethodPost)
	sub.HandleFunc("/tasks", fake.authed(fake.listTasks)).Methods(http.MethodGet)
	sub.HandleFunc("/tasks", fake.authed(fake.createTask)).Methods(http.MethodPost)
	sub.HandleFunc("/tasks/{id}", fake.authed(fake.deleteTask)).Methods(http.MethodDelete)
	sub.HandleFunc("/activities", fake.authed(fake.listActivities)).Methods(http.MethodGet)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return fake, &api.Client{BaseURL: server.URL + "/api", HTTPClient: server.Client()}
}

func (f *fakeAdminAPI) addTasks(titles ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, title := range titles {
		f.tasks = append(f.tasks, map[string]any{"id": f.nextID, "title": title})
		f.nextID++
	}
}

func (f *fakeAdminAPI) expireTokens() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejectAll = true
}

func (f *fakeAdminAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		reject := f.rejectAll
		f.mu.Unlock()

		if reject || r.Header.Get("Authorization") != "Bearer "+fakeToken {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
			return
		}
		next(w, r)
	}
}

func (f *fakeAdminAPI) login(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body["password"] != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":  map[string]any{"id": 1, "name": "Alice", "email": body["email"]},
		"token": fakeToken,
	})
}

func (f *fakeAdminAPI) listTasks(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = 10
	}
	search := strings.ToLower(r.URL.Query().Get("search"))

	matched := make([]map[string]any, 0, len(f.tasks))
	for _, task := range f.tasks {
		if search == "" || strings.Contains(strings.ToLower(task["title"].(string)), search) {
			matched = append(matched, task)
		}
	}

	lastPage := (len(matched) + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	start := min((page-1)*perPage, len(matched))
	end := min(start+perPage, len(matched))

	writeJSON(w, http.StatusOK, map[string]any{
		"data": matched[start:end],
		"meta": map[string]any{
			"current_page": page,
			"last_page":    lastPage,
			"total":        len(matched),
			"per_page":     perPage,
		},
	})
}

func (f *fakeAdminAPI) createTask(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	title, _ := body["title"].(string)
	if strings.TrimSpace(title) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The title field is required.",
			"errors":  map[string][]string{"title": {"required"}},
		})
		return
	}

	f.addTasks(title)
	writeJSON(w, http.StatusCreated, map[string]any{"data": body})
}

func (f *fakeAdminAPI) deleteTask(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := mux.Vars(r)["id"]
	for i, task := range f.tasks {
		if strconv.Itoa(task["id"].(int)) == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"message": "Task not found"})
}

func (f *fakeAdminAPI) listActivities(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"activities": f.activities})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
