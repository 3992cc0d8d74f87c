package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luisromero/bidhaus-backend/pkg/db/models"
)

// Repository manages persistence for money events. The table is
// append-only: there is deliberately no update or delete surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.MoneyEvent) error
	ListPageByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.MoneyEvent, error)
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]models.MoneyEvent, error)
	SumAmountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, event *models.MoneyEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// ListPageByUser returns events newest first. The id tiebreak keeps the
// order total when two events share an occurred_at.
func (r *repository) ListPageByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.MoneyEvent, error) {
	var events []models.MoneyEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ListAllByUser returns the full history oldest first for admin review.
// Unpaginated by intent; the admin view consumes the entire set.
func (r *repository) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]models.MoneyEvent, error) {
	var events []models.MoneyEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) SumAmountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.MoneyEvent{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
