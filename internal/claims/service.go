package claims

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luisromero/bidhaus-backend/internal/auctions"
	"github.com/luisromero/bidhaus-backend/internal/events"
	"github.com/luisromero/bidhaus-backend/pkg/db"
	"github.com/luisromero/bidhaus-backend/pkg/db/models"
	"github.com/luisromero/bidhaus-backend/pkg/enums"
	pkgerrors "github.com/luisromero/bidhaus-backend/pkg/errors"
	"github.com/luisromero/bidhaus-backend/pkg/logger"
	"github.com/luisromero/bidhaus-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service converts a winner's shipping details into a claimed fulfillment.
type Service interface {
	Claim(ctx context.Context, input ClaimInput) (*ClaimResult, error)
}

type service struct {
	repo   auctions.Repository
	tx     txRunner
	events events.Publisher
	logg   *logger.Logger
	now    func() time.Time
}

// ClaimInput carries the authenticated winner's claim request.
type ClaimInput struct {
	UserID    uuid.UUID
	AuctionID uuid.UUID
	Address   types.Address
}

// ClaimResult is returned on a successful transition into claimed.
type ClaimResult struct {
	Settlement  *models.AuctionSettlement  `json:"settlement"`
	Fulfillment *models.AuctionFulfillment `json:"fulfillment"`
}

// NewService builds a claim service with the required dependencies.
func NewService(repo auctions.Repository, tx txRunner, publisher events.Publisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("auctions repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &service{
		repo:   repo,
		tx:     tx,
		events: publisher,
		logg:   logg,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Claim(ctx context.Context, input ClaimInput) (*ClaimResult, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.AuctionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auction id required")
	}

	address := input.Address.Normalized()
	if missing := address.MissingFields(); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address incomplete").
			WithDetails(map[string]any{"missing": missing})
	}

	var result *ClaimResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		settlement, err := repo.FindSettlementForWinner(ctx, input.AuctionID, input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "settlement not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settlement")
		}

		fulfillment, err := repo.FindFulfillmentBySettlement(ctx, settlement.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load fulfillment")
		}

		if fulfillment == nil {
			fulfillment = &models.AuctionFulfillment{
				AuctionSettlementID: settlement.ID,
				UserID:              settlement.WinningUserID,
				Status:              enums.FulfillmentStatusPending,
			}
			if err := repo.CreateFulfillment(ctx, fulfillment); err != nil {
				if db.IsUniqueViolation(err, "") {
					// Lost the race to a concurrent first claim.
					return pkgerrors.New(pkgerrors.CodeStateConflict, "fulfillment already claimed")
				}
				return pkgerrors.Wrap(pkgerrors.CodeUnprocessable, err, "create fulfillment")
			}
		}

		if fulfillment.UserID != input.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "fulfillment belongs to another user")
		}
		if fulfillment.Status != enums.FulfillmentStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "fulfillment already claimed")
		}

		claimedAt := s.now()
		claimed, err := repo.ClaimFulfillment(ctx, fulfillment.ID, &address, claimedAt)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeUnprocessable, err, "claim fulfillment")
		}
		if !claimed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "fulfillment already claimed")
		}

		fulfillment.Status = enums.FulfillmentStatusClaimed
		fulfillment.ShippingAddress = &address
		fulfillment.ClaimedAt = &claimedAt

		result = &ClaimResult{Settlement: settlement, Fulfillment: fulfillment}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitClaimed(ctx, result)
	return result, nil
}

// emitClaimed publishes the state change after commit. The claim is
// already durable, so publish failures are logged and swallowed.
func (s *service) emitClaimed(ctx context.Context, result *ClaimResult) {
	payload := events.FulfillmentClaimedEvent{
		AuctionID:     result.Settlement.AuctionID,
		SettlementID:  result.Settlement.ID,
		FulfillmentID: result.Fulfillment.ID,
		UserID:        result.Fulfillment.UserID,
		Status:        result.Fulfillment.Status,
	}
	if err := s.events.Emit(ctx, events.TypeFulfillmentClaimed, payload); err != nil && s.logg != nil {
		s.logg.Error(ctx, "emit fulfillment claimed event", err)
	}
}
