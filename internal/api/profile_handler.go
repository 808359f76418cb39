package api

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/domain"
	"github.com/teammatch/backend/pkg/response"
)

type ProfileHandler struct {
	profileService *domain.ProfileService
	logger         *zap.Logger
}

func NewProfileHandler(profileService *domain.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// Upsert handles PUT /events/{eventID}/profile
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := uuidParam(w, r, "eventID")
	if !ok {
		return
	}

	var input domain.ProfileInput
	if !decodeJSON(w, r, &input) {
		return
	}

	profile, err := h.profileService.UpsertProfile(r.Context(), eventID, userID, input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.OK(w, profile)
}

// GetMine handles GET /events/{eventID}/profile
func (h *ProfileHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.get(w, r, userID)
}

// Get handles GET /events/{eventID}/profile/{userID}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r, "userID")
	if !ok {
		return
	}
	h.get(w, r, userID)
}

func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	eventID, ok := uuidParam(w, r, "eventID")
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), eventID, userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.OK(w, profile)
}

// ListParticipants handles GET /events/{eventID}/participants
func (h *ProfileHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uuidParam(w, r, "eventID")
	if !ok {
		return
	}

	profiles, err := h.profileService.ListParticipants(r.Context(), eventID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.OK(w, profiles)
}
