package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/luisromero/bidhaus-backend/pkg/enums"
)

// CreditPurchase records a completed purchase of bid credits. Payment
// capture happens upstream; this row is the settled read model.
type CreditPurchase struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index"`
	AmountCents   int64          `gorm:"column:amount_cents;not null"`
	Currency      enums.Currency `gorm:"column:currency;type:text;not null;default:'USD'"`
	StorefrontKey string         `gorm:"column:storefront_key;not null"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
}

// SourceType implements the ledger source reference.
func (p *CreditPurchase) SourceType() enums.SourceType { return enums.SourceTypeCreditPurchase }

// SourceID implements the ledger source reference.
func (p *CreditPurchase) SourceID() uuid.UUID { return p.ID }

// SourceStorefrontKey exposes the purchase's partition for ledger key resolution.
func (p *CreditPurchase) SourceStorefrontKey() string { return p.StorefrontKey }
