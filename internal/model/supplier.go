package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a catalog reference entity. Code has the form SUP + 4 digits,
// assigned by the identifier generator at creation.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	Contact   string    `gorm:"type:varchar(30)"`
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
