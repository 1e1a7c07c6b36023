package domain

import "strings"

type UserIdentity struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u UserIdentity) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return strings.TrimSpace(u.Email)
}

// Session is the in-memory view of the current login. A session is
// authenticated exactly when it carries a token.
type Session struct {
	User  *UserIdentity
	Token string
}

func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}
