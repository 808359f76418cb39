package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/domain"
	"github.com/teammatch/backend/pkg/response"
)

const maxDeviceTokenLength = 4096

type DeviceHandler struct {
	devices domain.DeviceRepository
	logger  *zap.Logger
}

func NewDeviceHandler(devices domain.DeviceRepository, logger *zap.Logger) *DeviceHandler {
	return &DeviceHandler{
		devices: devices,
		logger:  logger,
	}
}

// Register handles PUT /devices
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Token    string `json:"token"`
		Platform string `json:"platform"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	token := strings.TrimSpace(req.Token)
	if token == "" || len(token) > maxDeviceTokenLength {
		response.ValidationError(w, "invalid input", map[string]string{"token": "is required"})
		return
	}

	if err := h.devices.RegisterDevice(r.Context(), userID, token, strings.ToLower(strings.TrimSpace(req.Platform))); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.NoContent(w)
}
