package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"gamescope/app/internal/auth"
	"gamescope/app/internal/backend"
	"gamescope/app/internal/config"
	"gamescope/app/internal/database"
	"gamescope/app/internal/models"
	"gamescope/app/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// region --- DTOs ---

// RegisterInput defines the structure for account registration.
type RegisterInput struct {
	Name     string `json:"name" binding:"required" example:"Ana"`
	Email    string `json:"email" binding:"required,email" example:"ana@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

// SessionInput defines the structure for signing in.
type SessionInput struct {
	Email    string `json:"email" binding:"required" example:"ana@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// SessionResponse is returned when a session starts.
type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      backend.User `json:"user"`
}

// RenameInput defines the structure for a display-name change.
type RenameInput struct {
	Name string `json:"name" binding:"required" example:"Ana B."`
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// endregion

// region --- Auth Handlers ---

// RegisterAccount godoc
// @Summary      Register a new account
// @Description  Creates an account and starts a session for it.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  SessionResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func RegisterAccount(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name, err := models.ValidateDisplayName(input.Name)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing models.Account
	if err := database.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	account := models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := database.DB.Create(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	resp, err := startSession(account)
	if err != nil {
		log.Printf("Failed to start session for account %d: %v", account.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// CreateSession godoc
// @Summary      Sign in
// @Description  Authenticates with email and password and starts a new session.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body SessionInput true "Credentials"
// @Success      201  {object}  SessionResponse
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/sessions [post]
func CreateSession(c *gin.Context) {
	var input SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var account models.Account
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := database.DB.Where("email = ?", email).First(&account).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	resp, err := startSession(account)
	if err != nil {
		log.Printf("Failed to start session for account %d: %v", account.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// DeleteSession godoc
// @Summary      Sign out
// @Description  Revokes the session the request was made with.
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/sessions [delete]
func DeleteSession(c *gin.Context) {
	sessionID := c.GetString(auth.KeySessionID)
	if err := database.DB.Where("id = ?", sessionID).Delete(&models.Session{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke session"})
		return
	}
	c.Status(http.StatusNoContent)
}

func startSession(account models.Account) (SessionResponse, error) {
	session := models.Session{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(config.AppConfig.SessionTTL),
	}
	if err := database.DB.Create(&session).Error; err != nil {
		return SessionResponse{}, err
	}

	token, err := jwt.GenerateToken(account.PublicID(), session.ID, session.ExpiresAt)
	if err != nil {
		return SessionResponse{}, err
	}
	return SessionResponse{Token: token, ExpiresAt: session.ExpiresAt, User: account.ToUser()}, nil
}

// endregion

// region --- Account Handlers ---

// GetAccount godoc
// @Summary      Get the current account
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  backend.User
// @Failure      401  {object}  ErrorResponse
// @Router       /account [get]
func GetAccount(c *gin.Context) {
	account, _ := auth.CurrentAccount(c)
	c.JSON(http.StatusOK, account.ToUser())
}

// UpdateAccountName godoc
// @Summary      Change the display name
// @Description  Updates the account's display name. Copies of the name held by documents are not touched.
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RenameInput true "New name"
// @Success      200  {object}  backend.User
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /account/name [patch]
func UpdateAccountName(c *gin.Context) {
	account, _ := auth.CurrentAccount(c)

	var input RenameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name, err := models.ValidateDisplayName(input.Name)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := database.DB.Model(&account).Update("name", name).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update name"})
		return
	}
	account.Name = name

	c.JSON(http.StatusOK, account.ToUser())
}

// endregion
