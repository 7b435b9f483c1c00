package handler

import (
	"net/http"
	"testing"
	"time"

	"gamescope/app/internal/backend"
	"gamescope/app/internal/database"
	"gamescope/app/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndSignIn(t *testing.T) {
	r := setupRouter(t)

	reg := register(t, r, "  Ana ", "Ana@Example.com")
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "Ana", reg.User.Name)
	assert.Equal(t, "ana@example.com", reg.User.Email)
	assert.NotEmpty(t, reg.User.ID)

	w := call(t, r, http.MethodGet, "/api/v1/account", reg.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reg.User, decode[backend.User](t, w))

	w = call(t, r, http.MethodPost, "/api/v1/auth/sessions", "", SessionInput{Email: "ana@example.com", Password: "password123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	second := decode[SessionResponse](t, w)
	assert.NotEqual(t, reg.Token, second.Token)
	assert.Equal(t, reg.User, second.User)

	w = call(t, r, http.MethodPost, "/api/v1/auth/sessions", "", SessionInput{Email: "ana@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = call(t, r, http.MethodPost, "/api/v1/auth/sessions", "", SessionInput{Email: "nobody@example.com", Password: "password123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_Rejects(t *testing.T) {
	r := setupRouter(t)
	register(t, r, "Ana", "ana@example.com")

	tests := []struct {
		name  string
		input RegisterInput
		want  int
	}{
		{"duplicate email", RegisterInput{Name: "Other", Email: "ANA@example.com", Password: "password123"}, http.StatusConflict},
		{"short password", RegisterInput{Name: "Bo", Email: "bo@example.com", Password: "short"}, http.StatusBadRequest},
		{"bad email", RegisterInput{Name: "Bo", Email: "not-an-email", Password: "password123"}, http.StatusBadRequest},
		{"blank name", RegisterInput{Name: "   ", Email: "bo@example.com", Password: "password123"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(t, r, http.MethodPost, "/api/v1/auth/register", "", tt.input)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestDeleteSession_RevokesToken(t *testing.T) {
	r := setupRouter(t)
	reg := register(t, r, "Ana", "ana@example.com")

	w := call(t, r, http.MethodDelete, "/api/v1/auth/sessions", reg.Token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = call(t, r, http.MethodGet, "/api/v1/account", reg.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Session expired", decode[ErrorResponse](t, w).Error)
}

func TestAuthMiddleware(t *testing.T) {
	r := setupRouter(t)
	reg := register(t, r, "Ana", "ana@example.com")

	w := call(t, r, http.MethodGet, "/api/v1/account", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(t, r, http.MethodGet, "/api/v1/account", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", decode[ErrorResponse](t, w).Error)

	w = call(t, r, http.MethodGet, "/api/v1/account?access_token="+reg.Token, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The row is authoritative even while the token itself is still valid.
	require.NoError(t, database.DB.Model(&models.Session{}).
		Where("account_id IS NOT NULL").
		Update("expires_at", time.Now().Add(-time.Minute)).Error)
	w = call(t, r, http.MethodGet, "/api/v1/account", reg.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Session expired", decode[ErrorResponse](t, w).Error)
}

func TestUpdateAccountName(t *testing.T) {
	r := setupRouter(t)
	reg := register(t, r, "Ana", "ana@example.com")

	w := call(t, r, http.MethodPatch, "/api/v1/account/name", reg.Token, RenameInput{Name: " Ana B. "})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Ana B.", decode[backend.User](t, w).Name)

	w = call(t, r, http.MethodGet, "/api/v1/account", reg.Token, nil)
	assert.Equal(t, "Ana B.", decode[backend.User](t, w).Name)

	long := make([]byte, models.MaxDisplayNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	w = call(t, r, http.MethodPatch, "/api/v1/account/name", reg.Token, RenameInput{Name: string(long)})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, models.ErrNameTooLong.Error(), decode[ErrorResponse](t, w).Error)

	w = call(t, r, http.MethodPatch, "/api/v1/account/name", reg.Token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
