package models

import (
	"time"

	"github.com/google/uuid"
)

// AuctionSettlement records that an auction closed with a winner. At most
// one settlement exists per auction; it owns zero or one fulfillment.
type AuctionSettlement struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AuctionID     uuid.UUID `gorm:"column:auction_id;type:uuid;not null;uniqueIndex"`
	WinningUserID uuid.UUID `gorm:"column:winning_user_id;type:uuid;not null;index"`
	WinningBidID  uuid.UUID `gorm:"column:winning_bid_id;type:uuid;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`

	Fulfillment *AuctionFulfillment `gorm:"foreignKey:AuctionSettlementID"`
}
