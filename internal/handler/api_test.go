package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klse-analytics/portal/internal/domain"
	"github.com/klse-analytics/portal/internal/session"
)

func TestSessionGetHandler(t *testing.T) {
	t.Run("locked", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		w := httptest.NewRecorder()
		h.SessionGetHandler(w, getRequest("/api/v1/session", newSession(t)))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

		var raw map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		assert.Equal(t, "IDLE", raw["state"])
		assert.Equal(t, false, raw["hasAccess"])
		assert.Nil(t, raw["expiryDate"])
		assert.Nil(t, raw["countdown"])
	})

	t.Run("active", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		sess := newSession(t)
		grantAccess(t, sess, "2026-03-20T10:00:00Z")

		w := httptest.NewRecorder()
		h.SessionGetHandler(w, getRequest("/api/v1/session", sess))

		var resp domain.SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.HasAccess)
		require.NotNil(t, resp.ExpiryDate)
		assert.Equal(t, "2026-03-20T10:00:00Z", *resp.ExpiryDate)
		require.NotNil(t, resp.Countdown)
		assert.True(t, resp.Countdown.Valid)
		assert.Equal(t, 19, resp.Countdown.Days)
		assert.Equal(t, "normal", resp.Countdown.Tier)
		assert.Equal(t, "19 Days", resp.Countdown.Label)
		assert.Equal(t, "Until 20 Mar 2026", resp.Countdown.Caption)
	})
}

func TestHealthz(t *testing.T) {
	h, _, _ := newTestHandler(t)
	w := httptest.NewRecorder()
	h.HealthzHandler(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReadyz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		h.Sessions.(*session.Store).Create()

		w := httptest.NewRecorder()
		h.ReadyzHandler(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp domain.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, 1, resp.Sessions)
	})

	t.Run("templates missing", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		h.SetTemplates(nil)

		w := httptest.NewRecorder()
		h.ReadyzHandler(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
