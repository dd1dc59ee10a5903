package models

import "time"

// Contact statuses.
const (
	ContactStatusActive   = "active"
	ContactStatusInactive = "inactive"
)

// Contact represents a person eligible to receive templated email.
// Email is unique across contacts; first/last name are kept in sync with
// the combined display name.
type Contact struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`             // Combined display name
	FirstName string    `db:"first_name" json:"first_name"` // Given name
	LastName  string    `db:"last_name" json:"last_name"`   // Family name
	Email     string    `db:"email" json:"email"`
	Company   string    `db:"company" json:"company"`
	Phone     string    `db:"phone" json:"phone"`
	GroupID   *int64    `db:"group_id" json:"group_id"` // nil when ungrouped
	Notes     string    `db:"notes" json:"notes"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Populated by joined list queries only.
	GroupName *string `db:"group_name" json:"group_name,omitempty"`
}
