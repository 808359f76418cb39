package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teammatch/backend/internal/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "cli-test-secret")
	t.Setenv("REDIS_URL", "")
	t.Setenv("JWT_ISSUER", "teammatch")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	userID := uuid.New()

	out, err := execute(t, "token", userID.String())
	require.NoError(t, err)

	token := strings.TrimSpace(out)
	claims, err := auth.NewJWTManager("cli-test-secret", time.Hour, "teammatch").ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestTokenCommand_InvalidUser(t *testing.T) {
	_, err := execute(t, "token", "not-a-uuid")
	assert.ErrorContains(t, err, "invalid user id")
}

func TestSeedCommand(t *testing.T) {
	out, err := execute(t, "seed", "--name", "CLI Hack")
	require.NoError(t, err)

	assert.Contains(t, out, `Event "CLI Hack" created with code`)
	assert.Contains(t, out, "Sarah Chen")
	assert.Contains(t, out, "5 matches")
}

func TestMigrateCommand_MemoryStore(t *testing.T) {
	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date")
}

func TestRegenerateCommand_InvalidEvent(t *testing.T) {
	_, err := execute(t, "regenerate", "nope")
	assert.ErrorContains(t, err, "invalid event id")
}
