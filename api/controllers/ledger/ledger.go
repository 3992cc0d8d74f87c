package ledger

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/luisromero/bidhaus-backend/api/middleware"
	"github.com/luisromero/bidhaus-backend/api/responses"
	internalledger "github.com/luisromero/bidhaus-backend/internal/ledger"
	pkgerrors "github.com/luisromero/bidhaus-backend/pkg/errors"
	"github.com/luisromero/bidhaus-backend/pkg/logger"
	"github.com/luisromero/bidhaus-backend/pkg/pagination"
)

// List returns the authenticated user's money events, newest first.
func List(svc internalledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.LedgerForUser(r.Context(), userID, parsePagination(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// Balance returns the signed sum of the authenticated user's ledger.
func Balance(svc internalledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		balance, err := svc.Balance(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, balance)
	}
}

// AdminHistory returns a user's full ledger with each event's source
// entity resolved.
func AdminHistory(svc internalledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "userId"))
		if raw == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id is required"))
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		history, err := svc.AdminHistory(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"history": history})
	}
}

func authenticatedUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user identity")
	}
	return userID, nil
}

// parsePagination reads page/per_page query values. Unparsable values are
// ignored so pagination.Normalize applies the defaults.
func parsePagination(r *http.Request) pagination.Params {
	params := pagination.Params{}
	if page, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("page"))); err == nil {
		params.Page = page
	}
	if perPage, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("per_page"))); err == nil {
		params.PerPage = perPage
	}
	return params
}
