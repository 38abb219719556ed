package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is one entry of the admin-managed award category set. Guests
// reference categories by name, not by id; removing a category does not
// touch guests already assigned to it.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (Category) TableName() string { return "categories" }

// DefaultCategories seeds a fresh category set. The first entry is the
// protected sentinel.
var DefaultCategories = []string{
	DefaultCategory,
	"Nominee / Partner",
	"VIP",
	"Media",
	"Organizing Team",
	"Government Official",
	"Sponsor",
}
