package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/teammatch/backend/internal/domain"
)

// RegisterDevice stores a push token, moving it to userID if another
// account registered it before.
func (r *PostgresRepository) RegisterDevice(ctx context.Context, userID uuid.UUID, token, platform string) error {
	query := `
		INSERT INTO device_tokens (token, user_id, platform)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			platform = EXCLUDED.platform,
			updated_at = NOW()`

	if _, err := r.db.Exec(ctx, query, token, userID, platform); err != nil {
		return domain.StoreError("devices.register", err)
	}
	return nil
}

func (r *PostgresRepository) ListDeviceTokens(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT token FROM device_tokens WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, domain.StoreError("devices.list", err)
	}
	tokens, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, domain.StoreError("devices.list", err)
	}
	return tokens, nil
}

func (r *PostgresRepository) RemoveDeviceToken(ctx context.Context, token string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM device_tokens WHERE token = $1`, token); err != nil {
		return domain.StoreError("devices.remove", err)
	}
	return nil
}
