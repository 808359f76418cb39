package domain

import (
	"context"

	"github.com/google/uuid"
)

// DeviceRepository stores push tokens per user
type DeviceRepository interface {
	RegisterDevice(ctx context.Context, userID uuid.UUID, token, platform string) error
	ListDeviceTokens(ctx context.Context, userID uuid.UUID) ([]string, error)
	RemoveDeviceToken(ctx context.Context, token string) error
}
