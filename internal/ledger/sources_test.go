package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/luisromero/bidhaus-backend/pkg/db/models"
	"github.com/luisromero/bidhaus-backend/pkg/enums"
)

func eventWithSource(id int64, sourceType enums.SourceType, sourceID uuid.UUID) models.MoneyEvent {
	return models.MoneyEvent{
		ID:         id,
		UserID:     uuid.New(),
		Type:       enums.MoneyEventTypeCreditSpend,
		SourceType: &sourceType,
		SourceID:   &sourceID,
	}
}

func TestResolveBatchesPerType(t *testing.T) {
	resolver := NewSourceResolver()
	bidCalls := 0
	resolver.Register(enums.SourceTypeBid, func(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]any, error) {
		bidCalls++
		rows := make(map[uuid.UUID]any, len(ids))
		for _, id := range ids {
			rows[id] = &models.Bid{ID: id}
		}
		return rows, nil
	})

	events := []models.MoneyEvent{
		eventWithSource(1, enums.SourceTypeBid, uuid.New()),
		eventWithSource(2, enums.SourceTypeBid, uuid.New()),
		eventWithSource(3, enums.SourceTypeBid, uuid.New()),
	}

	resolved, err := resolver.Resolve(context.Background(), events)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if bidCalls != 1 {
		t.Fatalf("bid loader calls = %d, want 1", bidCalls)
	}
	for _, event := range events {
		if resolved[event.ID] == nil {
			t.Fatalf("event %d did not resolve", event.ID)
		}
	}
}

func TestResolveMissingRowYieldsNil(t *testing.T) {
	resolver := NewSourceResolver()
	resolver.Register(enums.SourceTypeBid, func(context.Context, []uuid.UUID) (map[uuid.UUID]any, error) {
		return map[uuid.UUID]any{}, nil
	})

	events := []models.MoneyEvent{eventWithSource(1, enums.SourceTypeBid, uuid.New())}
	resolved, err := resolver.Resolve(context.Background(), events)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved[1] != nil {
		t.Fatal("deleted source row must resolve to nil")
	}
}

func TestResolveUnregisteredTypeYieldsNil(t *testing.T) {
	resolver := NewSourceResolver()

	events := []models.MoneyEvent{eventWithSource(1, enums.SourceType("legacy_import"), uuid.New())}
	resolved, err := resolver.Resolve(context.Background(), events)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved[1] != nil {
		t.Fatal("unregistered source type must resolve to nil, not error")
	}
}

func TestResolveLoaderFailurePropagates(t *testing.T) {
	resolver := NewSourceResolver()
	resolver.Register(enums.SourceTypeBid, func(context.Context, []uuid.UUID) (map[uuid.UUID]any, error) {
		return nil, errors.New("db down")
	})

	events := []models.MoneyEvent{eventWithSource(1, enums.SourceTypeBid, uuid.New())}
	if _, err := resolver.Resolve(context.Background(), events); err == nil {
		t.Fatal("loader failure must propagate")
	}
}
