package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a local account, linked to the identity provider by ExternalID.
type User struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ExternalID string    `db:"external_id" json:"externalId"`
	Username   string    `db:"username" json:"username"`
	Email      string    `db:"email" json:"email"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// Identity is what the identity provider knows about a subject.
type Identity struct {
	ExternalID string
	Username   string
	Email      string
}
