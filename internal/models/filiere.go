package models

import "time"

// Filiere is a training program. The center association is optional at the
// model level; the center-scoped creation screen requires it.
type Filiere struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	CenterID    *string   `db:"center_id" json:"centerId,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
