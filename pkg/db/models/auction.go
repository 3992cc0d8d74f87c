package models

import (
	"time"

	"github.com/google/uuid"
)

// Auction is the read-model row for a listed item. Bid pricing and close
// scheduling are handled by collaborating services.
type Auction struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title         string     `gorm:"column:title;not null"`
	StorefrontKey string     `gorm:"column:storefront_key;not null;index"`
	EndsAt        *time.Time `gorm:"column:ends_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}
