// internal/api/router_test.go
package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterCORS(t *testing.T) {
	env := newTestEnv(t)

	preflight := func(t *testing.T, origin string) *http.Response {
		req, err := http.NewRequest(http.MethodOptions, env.server.URL+"/deposit", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	t.Run("PreflightFromAllowedOrigin", func(t *testing.T) {
		resp := preflight(t, "http://localhost:5173")
		assert.Contains(t, []int{http.StatusOK, http.StatusNoContent}, resp.StatusCode)
		assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
		assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	})

	t.Run("PreflightFromUnknownOrigin", func(t *testing.T) {
		resp := preflight(t, "https://evil.example.com")
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("SimpleRequest", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, env.server.URL+"/health", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://localhost:5173")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	})
}
