package models

import "time"

// Center is a training center, the top level of the intake taxonomy.
type Center struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Address     string    `db:"address" json:"address,omitempty"`
	Phone       string    `db:"phone" json:"phone,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
