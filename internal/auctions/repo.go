package auctions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luisromero/bidhaus-backend/pkg/db/models"
	"github.com/luisromero/bidhaus-backend/pkg/enums"
	"github.com/luisromero/bidhaus-backend/pkg/types"
)

// Repository exposes the auction/settlement read model plus the
// fulfillment writes the claim flow needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ExistsAuction(ctx context.Context, auctionID uuid.UUID) (bool, error)
	FindSettlementForWinner(ctx context.Context, auctionID, userID uuid.UUID) (*models.AuctionSettlement, error)
	FindFulfillmentBySettlement(ctx context.Context, settlementID uuid.UUID) (*models.AuctionFulfillment, error)
	CreateFulfillment(ctx context.Context, fulfillment *models.AuctionFulfillment) error
	ClaimFulfillment(ctx context.Context, fulfillmentID uuid.UUID, address *types.Address, claimedAt time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an auctions repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ExistsAuction(ctx context.Context, auctionID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Auction{}).
		Where("id = ?", auctionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) FindSettlementForWinner(ctx context.Context, auctionID, userID uuid.UUID) (*models.AuctionSettlement, error) {
	var settlement models.AuctionSettlement
	err := r.db.WithContext(ctx).
		Where("auction_id = ? AND winning_user_id = ?", auctionID, userID).
		First(&settlement).Error
	if err != nil {
		return nil, err
	}
	return &settlement, nil
}

func (r *repository) FindFulfillmentBySettlement(ctx context.Context, settlementID uuid.UUID) (*models.AuctionFulfillment, error) {
	var fulfillment models.AuctionFulfillment
	err := r.db.WithContext(ctx).
		Where("auction_settlement_id = ?", settlementID).
		First(&fulfillment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fulfillment, nil
}

func (r *repository) CreateFulfillment(ctx context.Context, fulfillment *models.AuctionFulfillment) error {
	if fulfillment.ID == uuid.Nil {
		fulfillment.ID = uuid.New()
	}
	if fulfillment.Status == "" {
		fulfillment.Status = enums.FulfillmentStatusPending
	}
	return r.db.WithContext(ctx).Create(fulfillment).Error
}

// ClaimFulfillment flips a pending fulfillment to claimed, recording the
// shipping address. The WHERE status guard is the compare-and-set that
// makes the transition safe under concurrent claims: it returns false when
// another writer already claimed the row.
func (r *repository) ClaimFulfillment(ctx context.Context, fulfillmentID uuid.UUID, address *types.Address, claimedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.AuctionFulfillment{}).
		Where("id = ? AND status = ?", fulfillmentID, enums.FulfillmentStatusPending).
		Updates(&models.AuctionFulfillment{
			Status:          enums.FulfillmentStatusClaimed,
			ShippingAddress: address,
			ClaimedAt:       &claimedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
