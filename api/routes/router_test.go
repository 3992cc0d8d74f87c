package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/luisromero/bidhaus-backend/internal/claims"
	"github.com/luisromero/bidhaus-backend/internal/ledger"
	"github.com/luisromero/bidhaus-backend/internal/stream"
	pkgAuth "github.com/luisromero/bidhaus-backend/pkg/auth"
	"github.com/luisromero/bidhaus-backend/pkg/config"
	"github.com/luisromero/bidhaus-backend/pkg/db/models"
	"github.com/luisromero/bidhaus-backend/pkg/logger"
	"github.com/luisromero/bidhaus-backend/pkg/pagination"
	"github.com/luisromero/bidhaus-backend/pkg/redis"
	"github.com/luisromero/bidhaus-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubLedgerService struct {
	page     *ledger.UserLedgerPage
	captured *pagination.Params
}

func (s stubLedgerService) RecordEvent(ctx context.Context, input ledger.RecordMoneyEventInput) (*models.MoneyEvent, error) {
	return &models.MoneyEvent{}, nil
}

func (s stubLedgerService) LedgerForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ledger.UserLedgerPage, error) {
	if s.captured != nil {
		*s.captured = params
	}
	if s.page != nil {
		return s.page, nil
	}
	return &ledger.UserLedgerPage{Events: []models.MoneyEvent{}}, nil
}

func (s stubLedgerService) AdminHistory(ctx context.Context, userID uuid.UUID) ([]ledger.HistoryEntry, error) {
	return []ledger.HistoryEntry{}, nil
}

func (s stubLedgerService) Balance(ctx context.Context, userID uuid.UUID) (*ledger.Balance, error) {
	return &ledger.Balance{UserID: userID}, nil
}

type stubClaimsService struct{}

func (stubClaimsService) Claim(ctx context.Context, input claims.ClaimInput) (*claims.ClaimResult, error) {
	return &claims.ClaimResult{
		Settlement:  &models.AuctionSettlement{ID: uuid.New(), AuctionID: input.AuctionID, WinningUserID: input.UserID},
		Fulfillment: &models.AuctionFulfillment{ID: uuid.New(), UserID: input.UserID},
	}, nil
}

type stubAuctionChecker struct{}

func (stubAuctionChecker) ExistsAuction(ctx context.Context, auctionID uuid.UUID) (bool, error) {
	return true, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
		Stream: config.StreamConfig{SendBufferSize: 8},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	hub := stream.NewHub(stubAuctionChecker{}, logg, nil)
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubSessionManager{},
		stubLedgerService{},
		stubClaimsService{},
		hub,
		nil,
	)
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-BidHaus-Env"); got != "test" {
		t.Fatalf("expected env header test got %q", got)
	}
}

func TestHealthReadyIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestLedgerRequiresAuth(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/api/v1/ledger", "/api/v1/ledger/balance"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without token got %d", path, resp.Code)
		}
	}
}

func TestLedgerSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if body.Data == nil {
		t.Fatal("expected data payload")
	}
}

func TestLedgerMalformedPaginationFallsBackToDefaults(t *testing.T) {
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	var captured pagination.Params
	router := NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubSessionManager{},
		stubLedgerService{captured: &captured},
		stubClaimsService{},
		stream.NewHub(stubAuctionChecker{}, logg, nil),
		nil,
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger?page=abc&per_page=xyz", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for unparsable pagination got %d", resp.Code)
	}
	if captured.Page != 0 || captured.PerPage != 0 {
		t.Fatalf("unparsable values should be ignored, got %+v", captured)
	}
}

func TestClaimsRequiresAuth(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims", strings.NewReader("{}"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestClaimsSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{"auction_id":"` + uuid.NewString() + `","shipping_address":{"name":"Dana Winner","line1":"1 Auction Way","city":"Portland","state":"OR","postal_code":"97201","country":"US"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAdminHistoryRequiresAuth(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/ledger/"+uuid.NewString()+"/history", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminHistorySucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/ledger/"+uuid.NewString()+"/history", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAdminHistoryRejectsMalformedUserID(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/ledger/not-a-uuid/history", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func buildToken(t *testing.T, cfg *config.Config, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:        userID,
		StorefrontKey: "main",
		JTI:           uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
