package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/domain"
	"github.com/teammatch/backend/pkg/response"
)

type ConnectionHandler struct {
	connService *domain.ConnectionService
	logger      *zap.Logger
}

func NewConnectionHandler(connService *domain.ConnectionService, logger *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		connService: connService,
		logger:      logger,
	}
}

// ExpressInterest handles POST /events/{eventID}/connections
func (h *ConnectionHandler) ExpressInterest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := uuidParam(w, r, "eventID")
	if !ok {
		return
	}

	var req struct {
		TargetUserID string `json:"target_user_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	targetID, err := uuid.Parse(req.TargetUserID)
	if err != nil {
		response.BadRequest(w, "invalid target user id")
		return
	}

	result, err := h.connService.ExpressInterest(r.Context(), eventID, userID, targetID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.OK(w, result)
}

// Decline handles POST /events/{eventID}/connections/{userID}/decline where
// userID is the participant who expressed interest.
func (h *ConnectionHandler) Decline(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := uuidParam(w, r, "eventID")
	if !ok {
		return
	}
	requesterID, ok := uuidParam(w, r, "userID")
	if !ok {
		return
	}

	conn, err := h.connService.DeclineInterest(r.Context(), eventID, userID, requesterID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.OK(w, conn)
}

// List handles GET /events/{eventID}/connections?status=pending,accepted
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := uuidParam(w, r, "eventID")
	if !ok {
		return
	}

	var statuses []domain.ConnectionStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, domain.ConnectionStatus(strings.ToLower(s)))
			}
		}
	}

	conns, err := h.connService.ListConnections(r.Context(), eventID, userID, statuses...)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.OK(w, conns)
}
