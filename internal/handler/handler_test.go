package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamescope/app/internal/config"
	"gamescope/app/internal/database"
	"gamescope/app/internal/docstore/gormstore"
	"gamescope/app/internal/models"
	"gamescope/app/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database.DB = testutil.OpenDB(t)
	database.Documents = gormstore.New(database.DB)
	config.AppConfig = &config.Config{JWTSecret: "test-secret", SessionTTL: time.Hour}

	return SetupRouter()
}

// call performs one request against r and returns the recorded response.
func call(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func register(t *testing.T, r http.Handler, name, email string) SessionResponse {
	t.Helper()
	w := call(t, r, http.MethodPost, "/api/v1/auth/register", "", RegisterInput{
		Name: name, Email: email, Password: "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[SessionResponse](t, w)
}

// promote makes the account behind resp an admin.
func promote(t *testing.T, resp SessionResponse) {
	t.Helper()
	require.NoError(t, database.DB.Model(&models.Account{}).
		Where("email = ?", resp.User.Email).
		Update("role", "admin").Error)
}

func TestPing(t *testing.T) {
	r := setupRouter(t)

	w := call(t, r, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}
