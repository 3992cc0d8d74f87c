package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/luisromero/bidhaus-backend/pkg/db/models"
	"github.com/luisromero/bidhaus-backend/pkg/enums"
	pkgerrors "github.com/luisromero/bidhaus-backend/pkg/errors"
	"github.com/luisromero/bidhaus-backend/pkg/metrics"
	"github.com/luisromero/bidhaus-backend/pkg/pagination"
	"github.com/luisromero/bidhaus-backend/pkg/tenant"
	"github.com/luisromero/bidhaus-backend/pkg/types"
)

// Service defines operations that record and read money events.
type Service interface {
	RecordEvent(ctx context.Context, input RecordMoneyEventInput) (*models.MoneyEvent, error)
	LedgerForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*UserLedgerPage, error)
	AdminHistory(ctx context.Context, userID uuid.UUID) ([]HistoryEntry, error)
	Balance(ctx context.Context, userID uuid.UUID) (*Balance, error)
}

type service struct {
	repo     Repository
	resolver *SourceResolver
	metrics  *metrics.LedgerMetrics
}

// RecordMoneyEventInput captures the immutable data a money event requires.
// Either Source or the SourceType/SourceID pair identifies the origin;
// both may be empty for entries with no originating entity.
type RecordMoneyEventInput struct {
	UserID        uuid.UUID
	Type          enums.MoneyEventType
	AmountCents   int64
	Currency      enums.Currency
	OccurredAt    time.Time
	Source        SourceRef
	SourceType    enums.SourceType
	SourceID      uuid.UUID
	Metadata      types.JSONMap
	StorefrontKey string
}

// NewService wires a ledger service with the provided repository and
// source resolver.
func NewService(repo Repository, resolver *SourceResolver, ledgerMetrics *metrics.LedgerMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if resolver == nil {
		resolver = NewSourceResolver()
	}
	return &service{repo: repo, resolver: resolver, metrics: ledgerMetrics}, nil
}

func (s *service) RecordEvent(ctx context.Context, input RecordMoneyEventInput) (*models.MoneyEvent, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid money event type %q", input.Type))
	}

	currency := input.Currency
	if currency == "" {
		currency = enums.CurrencyUSD
	}
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid currency %q", currency))
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	sourceType, sourceID := resolveSourceRef(input)
	storefrontKey, err := resolveStorefrontKey(ctx, input)
	if err != nil {
		return nil, err
	}

	event := &models.MoneyEvent{
		UserID:        input.UserID,
		Type:          input.Type,
		AmountCents:   input.AmountCents,
		Currency:      currency,
		OccurredAt:    occurredAt,
		SourceType:    sourceType,
		SourceID:      sourceID,
		Metadata:      input.Metadata,
		StorefrontKey: storefrontKey,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append money event")
	}

	s.metrics.IncRecorded(string(event.Type))
	return event, nil
}

func resolveSourceRef(input RecordMoneyEventInput) (*enums.SourceType, *uuid.UUID) {
	if input.Source != nil {
		st := input.Source.SourceType()
		id := input.Source.SourceID()
		return &st, &id
	}
	if input.SourceType != "" && input.SourceID != uuid.Nil {
		st := input.SourceType
		id := input.SourceID
		return &st, &id
	}
	return nil, nil
}

// resolveStorefrontKey applies the resolution chain: explicit input, then
// the source's own partition, then the request's ambient tenant. Appends
// with no resolvable key are rejected rather than bucketed under a default.
func resolveStorefrontKey(ctx context.Context, input RecordMoneyEventInput) (string, error) {
	if key := strings.TrimSpace(input.StorefrontKey); key != "" {
		return key, nil
	}
	if keyed, ok := input.Source.(StorefrontKeyed); ok {
		if key := strings.TrimSpace(keyed.SourceStorefrontKey()); key != "" {
			return key, nil
		}
	}
	if key := strings.TrimSpace(tenant.StorefrontFromContext(ctx)); key != "" {
		return key, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "storefront key could not be resolved")
}
