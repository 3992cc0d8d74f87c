package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/luisromero/bidhaus-backend/pkg/enums"
	"github.com/luisromero/bidhaus-backend/pkg/logger"
	"github.com/luisromero/bidhaus-backend/pkg/pubsub"
)

const (
	TypeFulfillmentClaimed = "fulfillment.claimed"
	TypeMoneyEventRecorded = "ledger.money_event_recorded"
)

// Envelope wraps a domain event for transport.
type Envelope struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// FulfillmentClaimedEvent signals a winner locked in shipping details.
type FulfillmentClaimedEvent struct {
	AuctionID     uuid.UUID               `json:"auction_id"`
	SettlementID  uuid.UUID               `json:"settlement_id"`
	FulfillmentID uuid.UUID               `json:"fulfillment_id"`
	UserID        uuid.UUID               `json:"user_id"`
	Status        enums.FulfillmentStatus `json:"status"`
}

// Publisher emits domain events to other services. Delivery is best
// effort: the durable write has already committed when Emit runs.
type Publisher interface {
	Emit(ctx context.Context, eventType string, payload any) error
}

// PubSubPublisher sends envelopes to the configured domain topic.
type PubSubPublisher struct {
	client *pubsub.Client
	logg   *logger.Logger
}

// NewPubSubPublisher wires a publisher over the shared Pub/Sub client.
func NewPubSubPublisher(client *pubsub.Client, logg *logger.Logger) (*PubSubPublisher, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client required")
	}
	return &PubSubPublisher{client: client, logg: logg}, nil
}

func (p *PubSubPublisher) Emit(ctx context.Context, eventType string, payload any) error {
	publisher := p.client.DomainPublisher()
	if publisher == nil {
		return fmt.Errorf("domain publisher unavailable")
	}

	envelope := Envelope{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	result := publisher.Publish(ctx, &gcppubsub.Message{
		Data:       data,
		Attributes: map[string]string{"type": eventType},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	if p.logg != nil {
		p.logg.Info(p.logg.WithField(ctx, "event_type", eventType), "domain event published")
	}
	return nil
}

// NopPublisher drops events; used when eventing is disabled.
type NopPublisher struct{}

func (NopPublisher) Emit(ctx context.Context, eventType string, payload any) error {
	return nil
}
