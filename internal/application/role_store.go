package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bnema/admin-dashboard-cli/internal/ports"
)

const permissionsPath = "/permissions"

// RoleStore is the roles collection plus the permission catalogue roles are
// built from.
type RoleStore struct {
	*ResourceStore

	permissions []json.RawMessage
}

func NewRoleStore(store *ResourceStore) *RoleStore {
	return &RoleStore{ResourceStore: store}
}

// FetchPermissions loads the permission list. Like FetchPage, a failure is
// recorded in Err.
func (s *RoleStore) FetchPermissions(ctx context.Context) {
	done := s.begin()
	defer done()

	var permissions []json.RawMessage
	err := s.client.Do(ctx, ports.RemoteRequest{
		Method:      http.MethodGet,
		Path:        permissionsPath,
		Credentials: s.creds(),
	}, &permissions)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.errMessage = fmt.Sprintf("Error fetching permissions: %s", ports.ErrorMessage(err))
		return
	}
	s.permissions = permissions
}

// Permissions returns the raw permission entries. The API sends either
// names or objects with a name field.
func (s *RoleStore) Permissions() []json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	permissions := make([]json.RawMessage, len(s.permissions))
	copy(permissions, s.permissions)
	return permissions
}

func (s *RoleStore) PermissionNames() []string {
	permissions := s.Permissions()
	names := make([]string, 0, len(permissions))
	for _, raw := range permissions {
		var name string
		if err := json.Unmarshal(raw, &name); err == nil {
			names = append(names, name)
			continue
		}
		var object struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &object); err == nil && object.Name != "" {
			names = append(names, object.Name)
			continue
		}
		names = append(names, string(raw))
	}
	return names
}
