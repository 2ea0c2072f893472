// internal/domain/user.go
package domain

import "time"

// User represents a ledger participant. Each user owns exactly one primary account.
type User struct {
	ID        int64     `db:"id" json:"id"`                 // Primary key, BIGSERIAL in DB
	Name      string    `db:"name" json:"name"`             // Display name, never empty
	Email     *string   `db:"email" json:"email"`           // Optional, unique when present
	CreatedAt time.Time `db:"created_at" json:"created_at"` // Timestamp of creation
}

// NewUser creates a new User instance.
func NewUser(name string, email *string) *User {
	return &User{
		Name:      name,
		Email:     email,
		CreatedAt: Now(),
	}
}

// Now returns the current UTC time truncated to the precision both SQL backends store.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
