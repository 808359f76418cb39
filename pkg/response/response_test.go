package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestEnvelope(t *testing.T) {
	t.Run("ok wraps data", func(t *testing.T) {
		rec := httptest.NewRecorder()
		OK(rec, map[string]int{"n": 1})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		body := decode(t, rec)
		assert.True(t, body.Success)
		assert.Nil(t, body.Error)
		assert.Equal(t, map[string]interface{}{"n": float64(1)}, body.Data)
	})

	t.Run("error carries code", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NotFound(rec, "EVENT_NOT_FOUND", "event not found")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decode(t, rec)
		assert.False(t, body.Success)
		require.NotNil(t, body.Error)
		assert.Equal(t, "EVENT_NOT_FOUND", body.Error.Code)
		assert.Empty(t, body.Error.Fields)
	})

	t.Run("validation lists fields", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ValidationError(rec, "invalid input", map[string]string{"role": "is required"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode(t, rec)
		require.NotNil(t, body.Error)
		assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
		assert.Equal(t, "is required", body.Error.Fields["role"])
	})

	t.Run("no content has empty body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NoContent(rec)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}
