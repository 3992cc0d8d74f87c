package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luisromero/bidhaus-backend/pkg/db/models"
	"github.com/luisromero/bidhaus-backend/pkg/enums"
	pkgerrors "github.com/luisromero/bidhaus-backend/pkg/errors"
	"github.com/luisromero/bidhaus-backend/pkg/pagination"
)

// UserLedgerPage is one page of a user's ledger, newest first.
type UserLedgerPage struct {
	Events []models.MoneyEvent `json:"events"`
	Meta   pagination.Meta     `json:"meta"`
}

// HistoryEntry pairs an event with its resolved source entity. Source is
// nil when the reference points at a deleted row or an unregistered type.
type HistoryEntry struct {
	Event  models.MoneyEvent `json:"event"`
	Source any               `json:"source"`
}

// Balance is the signed sum of a user's ledger.
type Balance struct {
	UserID      uuid.UUID       `json:"user_id"`
	AmountCents int64           `json:"amount_cents"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    enums.Currency  `json:"currency"`
}

func (s *service) LedgerForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*UserLedgerPage, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	params = pagination.Normalize(params)
	limit := pagination.LimitWithBuffer(params)
	offset := pagination.Offset(params)

	events, err := s.repo.ListPageByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger page")
	}

	hasMore := len(events) > params.PerPage
	if hasMore {
		events = events[:params.PerPage]
	}

	return &UserLedgerPage{
		Events: events,
		Meta: pagination.Meta{
			Page:    params.Page,
			PerPage: params.PerPage,
			HasMore: hasMore,
		},
	}, nil
}

func (s *service) AdminHistory(ctx context.Context, userID uuid.UUID) ([]HistoryEntry, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	events, err := s.repo.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger history")
	}

	sources, err := s.resolver.Resolve(ctx, events)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve event sources")
	}

	entries := make([]HistoryEntry, 0, len(events))
	for _, event := range events {
		entries = append(entries, HistoryEntry{
			Event:  event,
			Source: sources[event.ID],
		})
	}
	return entries, nil
}

func (s *service) Balance(ctx context.Context, userID uuid.UUID) (*Balance, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	totalCents, err := s.repo.SumAmountByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum ledger amounts")
	}

	return &Balance{
		UserID:      userID,
		AmountCents: totalCents,
		Amount:      decimal.NewFromInt(totalCents).Div(decimal.NewFromInt(100)),
		Currency:    enums.CurrencyUSD,
	}, nil
}
