package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/pkg/auth"
	"github.com/taskdeck/taskdeck/pkg/logger"
)

func authProbe(t *testing.T, mw func(http.Handler) http.Handler, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var subject string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = GetSubject(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, subject
}

func TestAuth(t *testing.T) {
	log := logger.NewForTesting()
	jwtManager := auth.NewJWTManager("test-secret")

	keyHash, err := auth.HashAPIKey("live-key")
	require.NoError(t, err)
	keyHashes := []string{keyHash}

	t.Run("passes everything through when nothing is configured", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec, _ := authProbe(t, Auth(nil, nil, log), req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("accepts a valid bearer token and sets the subject", func(t *testing.T) {
		token, err := jwtManager.GenerateToken("alice", []string{"schedules:write"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec, subject := authProbe(t, Auth(jwtManager, keyHashes, log), req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", subject)
	})

	t.Run("accepts a valid API key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-Key", "live-key")

		rec, subject := authProbe(t, Auth(jwtManager, keyHashes, log), req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "api-key", subject)
	})

	t.Run("rejects requests with no credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec, _ := authProbe(t, Auth(jwtManager, keyHashes, log), req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects an invalid token even with a wrong API key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		req.Header.Set("X-API-Key", "wrong-key")

		rec, _ := authProbe(t, Auth(jwtManager, keyHashes, log), req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
