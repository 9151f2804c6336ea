package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the owner of placed bets. Registration and authentication live in
// the web layer; the pipeline only needs the identity for stats and grading.
type User struct {
	ID        uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	Email     string    `db:"email" json:"email" validate:"required,email"`
	Username  string    `db:"username" json:"username" validate:"required"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
