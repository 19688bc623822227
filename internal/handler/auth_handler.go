package handler

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"

	"github.com/gcoopmansS/Moovle-sub000/internal/cache"
	"github.com/gcoopmansS/Moovle-sub000/internal/mail"
	"github.com/gcoopmansS/Moovle-sub000/internal/models"
	"github.com/gcoopmansS/Moovle-sub000/internal/repository/postgres"
	"github.com/gcoopmansS/Moovle-sub000/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	DisplayName string `json:"display_name" binding:"required,max=80" example:"Sam Walker"`
	Email       string `json:"email" binding:"required,email" example:"sam@example.com"`
	Password    string `json:"password" binding:"required,min=8" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"sam@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// ResetRequestInput asks for a password reset code by email.
type ResetRequestInput struct {
	Email string `json:"email" binding:"required,email" example:"sam@example.com"`
}

// ResetConfirmInput redeems an emailed code for a new password.
type ResetConfirmInput struct {
	Email       string `json:"email" binding:"required,email" example:"sam@example.com"`
	Code        string `json:"code" binding:"required,len=6" example:"482913"`
	NewPassword string `json:"new_password" binding:"required,min=8" example:"newpassword123"`
}

// TokenResponse carries an issued authentication token.
type TokenResponse struct {
	Token string `json:"token"`
}

// endregion

// AuthHandler serves registration, login and password resets.
type AuthHandler struct {
	users  *postgres.UserRepository
	codes  *cache.ResetCodeStore
	mailer *mail.Mailer
}

func NewAuthHandler(users *postgres.UserRepository, codes *cache.ResetCodeStore, mailer *mail.Mailer) *AuthHandler {
	return &AuthHandler{users: users, codes: codes, mailer: mailer}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		ID:           uuid.NewString(),
		DisplayName:  input.DisplayName,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		if errors.Is(err, postgres.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusCreated, TokenResponse{Token: token})
}

// Login godoc
// @Summary      Log in
// @Description  Verifies credentials and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), input.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// RequestPasswordReset godoc
// @Summary      Request a password reset code
// @Description  Emails a short-lived numeric code to the account's address. Always returns 200 so addresses cannot be probed.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body ResetRequestInput true "Account email"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Router       /auth/password-reset/request [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var input ResetRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The response is identical whether or not the account exists.
	user, err := h.users.GetByEmail(c.Request.Context(), input.Email)
	if err == nil {
		code, genErr := generateResetCode()
		if genErr == nil {
			if putErr := h.codes.Put(c.Request.Context(), user.Email, code); putErr == nil {
				if mailErr := h.mailer.SendResetCode(user.Email, code, cache.ResetCodeTTL); mailErr != nil {
					log.Printf("auth: failed to send reset code to %s: %v", user.Email, mailErr)
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the address is registered, a reset code has been sent"})
}

// ConfirmPasswordReset godoc
// @Summary      Confirm a password reset
// @Description  Redeems an emailed code and sets a new password.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body ResetConfirmInput true "Reset confirmation"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/password-reset/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var input ResetConfirmInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.codes.Consume(c.Request.Context(), input.Email, input.Code); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired reset code"})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), input.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired reset code"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	if _, err := h.users.UpdatePassword(c.Request.Context(), user.ID, string(hashedPassword)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
