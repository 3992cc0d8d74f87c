package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luisromero/bidhaus-backend/pkg/db/models"
	"github.com/luisromero/bidhaus-backend/pkg/enums"
)

// SourceRef identifies the entity a money event originated from.
type SourceRef interface {
	SourceType() enums.SourceType
	SourceID() uuid.UUID
}

// StorefrontKeyed is implemented by sources that carry their own tenant
// partition, letting the ledger inherit it when the caller supplies none.
type StorefrontKeyed interface {
	SourceStorefrontKey() string
}

// SourceLoader batch-fetches the rows of one source type keyed by id.
// Missing ids are simply absent from the result map.
type SourceLoader func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]any, error)

// SourceResolver maps source types to loaders. Unregistered types resolve
// to nil sources rather than errors; a deleted or unknown source is a
// displayable state, not a fault.
type SourceResolver struct {
	loaders map[enums.SourceType]SourceLoader
}

// NewSourceResolver returns an empty resolver.
func NewSourceResolver() *SourceResolver {
	return &SourceResolver{loaders: make(map[enums.SourceType]SourceLoader)}
}

// Register installs a loader for the given source type, replacing any
// previous registration.
func (r *SourceResolver) Register(sourceType enums.SourceType, loader SourceLoader) {
	if loader == nil {
		return
	}
	r.loaders[sourceType] = loader
}

// Resolve attaches source entities to events in two passes: group the
// events' references by type, then one batched fetch per type. The result
// maps event id to its source, with nil entries for unresolvable refs.
func (r *SourceResolver) Resolve(ctx context.Context, events []models.MoneyEvent) (map[int64]any, error) {
	resolved := make(map[int64]any, len(events))

	idsByType := make(map[enums.SourceType][]uuid.UUID)
	for _, event := range events {
		resolved[event.ID] = nil
		if event.SourceType == nil || event.SourceID == nil {
			continue
		}
		idsByType[*event.SourceType] = append(idsByType[*event.SourceType], *event.SourceID)
	}

	rowsByType := make(map[enums.SourceType]map[uuid.UUID]any, len(idsByType))
	for sourceType, ids := range idsByType {
		loader, ok := r.loaders[sourceType]
		if !ok {
			continue
		}
		rows, err := loader(ctx, ids)
		if err != nil {
			return nil, err
		}
		rowsByType[sourceType] = rows
	}

	for _, event := range events {
		if event.SourceType == nil || event.SourceID == nil {
			continue
		}
		if rows, ok := rowsByType[*event.SourceType]; ok {
			if row, ok := rows[*event.SourceID]; ok {
				resolved[event.ID] = row
			}
		}
	}

	return resolved, nil
}

// NewGormSourceResolver wires the standard loaders for bid and credit
// purchase sources against the provided connection.
func NewGormSourceResolver(db *gorm.DB) *SourceResolver {
	resolver := NewSourceResolver()
	resolver.Register(enums.SourceTypeBid, func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]any, error) {
		var bids []models.Bid
		if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&bids).Error; err != nil {
			return nil, err
		}
		rows := make(map[uuid.UUID]any, len(bids))
		for i := range bids {
			rows[bids[i].ID] = &bids[i]
		}
		return rows, nil
	})
	resolver.Register(enums.SourceTypeCreditPurchase, func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]any, error) {
		var purchases []models.CreditPurchase
		if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&purchases).Error; err != nil {
			return nil, err
		}
		rows := make(map[uuid.UUID]any, len(purchases))
		for i := range purchases {
			rows[purchases[i].ID] = &purchases[i]
		}
		return rows, nil
	})
	return resolver
}
