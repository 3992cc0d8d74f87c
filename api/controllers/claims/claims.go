package claims

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/luisromero/bidhaus-backend/api/middleware"
	"github.com/luisromero/bidhaus-backend/api/responses"
	internalclaims "github.com/luisromero/bidhaus-backend/internal/claims"
	pkgerrors "github.com/luisromero/bidhaus-backend/pkg/errors"
	"github.com/luisromero/bidhaus-backend/pkg/logger"
	"github.com/luisromero/bidhaus-backend/pkg/types"
)

type claimRequest struct {
	AuctionID       uuid.UUID     `json:"auction_id"`
	ShippingAddress types.Address `json:"shipping_address"`
}

// Claim transitions the caller's won auction into claimed with the
// provided shipping address.
func Claim(svc internalclaims.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "claims service unavailable"))
			return
		}

		rawUser := middleware.UserIDFromContext(r.Context())
		if rawUser == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing"))
			return
		}
		userID, err := uuid.Parse(rawUser)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user identity"))
			return
		}

		var req claimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}

		result, err := svc.Claim(r.Context(), internalclaims.ClaimInput{
			UserID:    userID,
			AuctionID: req.AuctionID,
			Address:   req.ShippingAddress,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
