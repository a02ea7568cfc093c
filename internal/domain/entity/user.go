package entity

import (
	"time"
)

// Authentication providers a user can be created with. The provider is fixed
// at account creation: credentials accounts carry a bcrypt hash, google
// accounts never do.
const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
)

// User is the aggregate root for the user domain.
// PasswordHash is empty for OAuth-provisioned accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	ImageURL     string
	Provider     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
