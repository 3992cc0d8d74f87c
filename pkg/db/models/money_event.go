package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/luisromero/bidhaus-backend/pkg/enums"
	"github.com/luisromero/bidhaus-backend/pkg/types"
)

// MoneyEvent records an immutable financial movement attributable to a user.
// Rows are append-only: corrections land as new offsetting events. The
// bigint id doubles as the ordering tiebreak when two events share an
// occurred_at timestamp.
type MoneyEvent struct {
	ID            int64                `gorm:"column:id;primaryKey;autoIncrement"`
	UserID        uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	Type          enums.MoneyEventType `gorm:"column:type;type:money_event_type_enum;not null"`
	AmountCents   int64                `gorm:"column:amount_cents;not null"`
	Currency      enums.Currency       `gorm:"column:currency;type:text;not null;default:'USD'"`
	OccurredAt    time.Time            `gorm:"column:occurred_at;not null;index"`
	SourceType    *enums.SourceType    `gorm:"column:source_type;type:text"`
	SourceID      *uuid.UUID           `gorm:"column:source_id;type:uuid"`
	Metadata      types.JSONMap        `gorm:"column:metadata;type:jsonb;serializer:json"`
	StorefrontKey string               `gorm:"column:storefront_key;not null"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
}
