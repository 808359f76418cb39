package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/domain"
	"github.com/teammatch/backend/internal/middleware"
	"github.com/teammatch/backend/pkg/response"
	"github.com/teammatch/backend/pkg/validator"
)

const maxBodyBytes = 1 << 20

// writeError maps service errors onto the response envelope
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, e := range verrs {
			if _, seen := fields[e.Field]; !seen {
				fields[e.Field] = e.Message
			}
		}
		response.ValidationError(w, "invalid input", fields)
	case errors.Is(err, domain.ErrProfileNotFound):
		response.NotFound(w, "PROFILE_NOT_FOUND", "profile not found")
	case errors.Is(err, domain.ErrUserNotFound):
		response.NotFound(w, "USER_NOT_FOUND", "user not found in this event")
	case errors.Is(err, domain.ErrEventNotFound):
		response.NotFound(w, "EVENT_NOT_FOUND", "event not found")
	case errors.Is(err, domain.ErrConnectionNotFound):
		response.NotFound(w, "CONNECTION_NOT_FOUND", "connection not found")
	case errors.Is(err, domain.ErrInvalidOperation):
		response.Error(w, http.StatusBadRequest, "INVALID_OPERATION", err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		logger.Error("store unavailable", zap.String("path", r.URL.Path), zap.Error(err))
		response.ServiceUnavailable(w, "STORE_UNAVAILABLE", "storage is temporarily unavailable")
	default:
		logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		response.InternalError(w, "internal error")
	}
}

// decodeJSON reads a bounded JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "invalid request body")
		return false
	}
	return true
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
	}
	return userID, ok
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		response.BadRequest(w, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
