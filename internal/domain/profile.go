package domain

import (
	"fmt"
	"strings"
	"time"
)

const DefaultProfileName = "default"

// Profile is a named API endpoint the CLI can log into.
type Profile struct {
	Name        string
	BaseURL     string
	Email       string
	LastLoginAt time.Time
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("profile name is required")
	}
	if strings.ContainsAny(p.Name, `/\`) || strings.Contains(p.Name, "..") {
		return fmt.Errorf("invalid profile name %q", p.Name)
	}
	return nil
}

// SecretNamespace prefixes the durable session keys of this profile.
func (p Profile) SecretNamespace() string {
	return "admin/" + p.Name
}
