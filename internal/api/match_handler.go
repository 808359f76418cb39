package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/domain"
	"github.com/teammatch/backend/pkg/response"
)

type MatchHandler struct {
	matchService *domain.MatchService
	logger       *zap.Logger
}

func NewMatchHandler(matchService *domain.MatchService, logger *zap.Logger) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
		logger:       logger,
	}
}

// Generate handles POST /events/{eventID}/matches/generate
func (h *MatchHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := uuidParam(w, r, "eventID")
	if !ok {
		return
	}

	matches, err := h.matchService.GenerateMatches(r.Context(), eventID, userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.OK(w, matches)
}

// List handles GET /events/{eventID}/matches
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := uuidParam(w, r, "eventID")
	if !ok {
		return
	}

	matches, err := h.matchService.ListMatches(r.Context(), eventID, userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.OK(w, matches)
}

// Pass handles DELETE /events/{eventID}/matches/{targetID}
func (h *MatchHandler) Pass(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := uuidParam(w, r, "eventID")
	if !ok {
		return
	}
	targetID, ok := uuidParam(w, r, "targetID")
	if !ok {
		return
	}

	if err := h.matchService.PassOnCandidate(r.Context(), eventID, userID, targetID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.NoContent(w)
}
