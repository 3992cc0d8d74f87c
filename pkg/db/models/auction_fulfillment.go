package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/luisromero/bidhaus-backend/pkg/enums"
	"github.com/luisromero/bidhaus-backend/pkg/types"
)

// AuctionFulfillment tracks the claim/shipping state for a settlement.
// user_id is fixed at creation and must match the settlement's winner; the
// pending->claimed transition is irreversible here.
type AuctionFulfillment struct {
	ID                  uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AuctionSettlementID uuid.UUID               `gorm:"column:auction_settlement_id;type:uuid;not null;uniqueIndex"`
	UserID              uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	Status              enums.FulfillmentStatus `gorm:"column:status;type:fulfillment_status_enum;not null;default:'pending'"`
	ShippingAddress     *types.Address          `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	ClaimedAt           *time.Time              `gorm:"column:claimed_at"`
	CreatedAt           time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
