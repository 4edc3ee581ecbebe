package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/boardhub/api/internal/auth"
	"github.com/boardhub/api/internal/middleware"
	"github.com/boardhub/api/internal/model"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserHandler struct {
	db          *gorm.DB
	jwtSecret   string
	revocations *auth.RevocationStore
}

func NewUserHandler(db *gorm.DB, jwtSecret string, revocations *auth.RevocationStore) *UserHandler {
	return &UserHandler{
		db:          db,
		jwtSecret:   jwtSecret,
		revocations: revocations,
	}
}

type SignUpRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignUp registers a new user with a bcrypt-hashed password and the default
// USER role.
func (h *UserHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, password and email are required"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := model.User{
		Username: req.Username,
		Password: string(hashed),
		Email:    req.Email,
		Role:     "USER",
	}

	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
			return
		}
		log.Printf("Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login verifies the credentials, issues a token and sets it as an HTTP-only
// cookie with a max-age matching the token lifetime.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	var user model.User
	if err := h.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": auth.ErrUserNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up user"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidCredentials.Error()})
		return
	}

	now := time.Now()
	token, err := auth.IssueToken(user.Username, now, h.jwtSecret)
	if err != nil {
		log.Printf("Failed to issue token for %s: %v", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	// Best effort; a failed stamp must not fail the login.
	if err := h.db.Model(&user).Update("last_login", now).Error; err != nil {
		log.Printf("Failed to stamp last login for %s: %v", user.Username, err)
	}

	c.SetCookie(auth.TokenCookieName, token, int(auth.TokenExpiry.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout clears the session cookie without recording a revocation. The token
// stays technically valid until its natural expiry; the client just no
// longer presents it.
func (h *UserHandler) Logout(c *gin.Context) {
	clearTokenCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// LogoutAll puts the token on the revocation list and clears the cookie. The
// token may come from a query parameter, the Authorization header or the
// cookie, and it does not need to be currently valid: an undecodable token
// or a failed revocation write is logged and swallowed so the client-visible
// logout always succeeds.
func (h *UserHandler) LogoutAll(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = middleware.ExtractToken(c)
	}

	if token == "" {
		log.Println("Logout-all without a token, skipping revocation")
	} else if claims, err := auth.DecodeToken(token, h.jwtSecret); err != nil {
		log.Printf("Logout-all with undecodable token, skipping revocation: %v", err)
	} else {
		expiresAt := time.Now()
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		if err := h.revocations.Revoke(c.Request.Context(), token, expiresAt, claims.Subject); err != nil {
			log.Printf("Failed to record revocation for %s: %v", claims.Subject, err)
		}
	}

	clearTokenCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out everywhere"})
}

// ValidateToken answers 200 only for a token that decodes, has not expired
// and is not revoked.
func (h *UserHandler) ValidateToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	claims, err := auth.DecodeToken(token, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "token is not valid"})
		return
	}

	now := time.Now()
	if auth.IsExpired(claims, now) {
		c.JSON(http.StatusForbidden, gin.H{"error": "token is not valid"})
		return
	}

	revoked, err := h.revocations.IsRevoked(c.Request.Context(), token, now)
	if err != nil || revoked {
		c.JSON(http.StatusForbidden, gin.H{"error": "token is not valid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token is valid"})
}

// List returns all users.
func (h *UserHandler) List(c *gin.Context) {
	var users []model.User
	if err := h.db.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// Delete removes a user by ID.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	result := h.db.Delete(&model.User{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": auth.ErrUserNotFound.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func clearTokenCookie(c *gin.Context) {
	c.SetCookie(auth.TokenCookieName, "", -1, "/", "", false, true)
}
