package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/luisromero/bidhaus-backend/pkg/enums"
)

// Bid is a user's offer on an auction. Ledger events reference bids as a
// polymorphic source.
type Bid struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AuctionID     uuid.UUID `gorm:"column:auction_id;type:uuid;not null;index"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	AmountCents   int64     `gorm:"column:amount_cents;not null"`
	StorefrontKey string    `gorm:"column:storefront_key;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

// SourceType implements the ledger source reference.
func (b *Bid) SourceType() enums.SourceType { return enums.SourceTypeBid }

// SourceID implements the ledger source reference.
func (b *Bid) SourceID() uuid.UUID { return b.ID }

// SourceStorefrontKey exposes the bid's partition for ledger key resolution.
func (b *Bid) SourceStorefrontKey() string { return b.StorefrontKey }
