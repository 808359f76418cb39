package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/domain"
	"github.com/teammatch/backend/pkg/response"
)

type EventHandler struct {
	eventService *domain.EventService
	logger       *zap.Logger
}

func NewEventHandler(eventService *domain.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		logger:       logger,
	}
}

// Create handles POST /events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var input domain.CreateEventInput
	if !decodeJSON(w, r, &input) {
		return
	}

	event, err := h.eventService.CreateEvent(r.Context(), userID, input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Info("event created",
		zap.String("event_id", event.ID.String()),
		zap.String("host_id", userID.String()),
	)
	response.Created(w, event)
}

// Get handles GET /events/{eventID}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uuidParam(w, r, "eventID")
	if !ok {
		return
	}

	event, err := h.eventService.GetEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.OK(w, event)
}

// GetByCode handles GET /events/code/{code}
func (h *EventHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventService.GetEventByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.OK(w, event)
}

// Join handles POST /events/{eventID}/join
func (h *EventHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := uuidParam(w, r, "eventID")
	if !ok {
		return
	}

	result, err := h.eventService.JoinEvent(r.Context(), eventID, userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.OK(w, result)
}

// ListJoined handles GET /me/events
func (h *EventHandler) ListJoined(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	events, err := h.eventService.ListUserEvents(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.OK(w, events)
}

// ListHosted handles GET /me/hosted-events
func (h *EventHandler) ListHosted(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	events, err := h.eventService.ListHostedEvents(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.OK(w, events)
}
