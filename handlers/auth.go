package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/varshinivarma16/booksbackend/internal/sessions"
	"github.com/varshinivarma16/booksbackend/internal/tokens"
	"github.com/varshinivarma16/booksbackend/internal/users"
	"github.com/varshinivarma16/booksbackend/pkg/logger"
	"github.com/varshinivarma16/booksbackend/pkg/middleware"
)

const refreshCookie = "refreshToken"

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler serves the portal login routes.
type AuthHandler struct {
	issuer      *tokens.Issuer
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
	verifier    middleware.Verifier
	// SecureCookie marks the refresh cookie Secure; off for plain-http development.
	SecureCookie bool
}

// NewAuthHandler wires the login routes. ver guards the profile routes; when nil
// the issuer's own access tokens are accepted.
func NewAuthHandler(iss *tokens.Issuer, u *users.Service, s *sessions.Service, ver middleware.Verifier) *AuthHandler {
	if ver == nil {
		ver = iss
	}
	return &AuthHandler{issuer: iss, usersSvc: u, sessionsSvc: s, verifier: ver}
}

// Register mounts the routes on rg (normally /api/login).
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/signup", h.Signup)
	rg.POST("/login", h.Login)
	rg.POST("/refresh-token", h.Refresh)
	rg.POST("/logout", h.Logout)
	rg.GET("/users", h.ListUsers)

	auth := middleware.AuthMiddleware(h.verifier)
	rg.PATCH("/users/:id/role", auth, h.UpdateRole)
	rg.GET("/user", auth, h.CurrentUser)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_, err := h.usersSvc.Signup(c.Request.Context(), req.Username, req.Email, req.Password, req.Role)
	switch {
	case errors.Is(err, users.ErrMissingFields), errors.Is(err, users.ErrInvalidRole), errors.Is(err, users.ErrExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.Errorf("signup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Signup failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

// Login checks credentials, opens a refresh session and returns an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	ctx := c.Request.Context()
	u, err := h.usersSvc.Authenticate(ctx, req.Email, req.Password)
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, users.ErrWrongPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.Errorf("login error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	userID := u.ID.Hex()
	sess, err := h.sessionsSvc.CreateSession(ctx, userID, c.Request.UserAgent(), h.issuer.RefreshTTL())
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	refresh, err := h.issuer.RefreshToken(userID, sess.TokenID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	access, err := h.issuer.AccessToken(userID, u.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	h.setRefreshCookie(c, refresh, int(h.issuer.RefreshTTL()/time.Second))
	c.JSON(http.StatusOK, gin.H{
		"message":     "Login successful",
		"accessToken": access,
		"user":        u.Public(),
	})
}

// Refresh exchanges the refresh cookie for a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw, err := c.Cookie(refreshCookie)
	if err != nil || raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token missing"})
		return
	}
	ctx := c.Request.Context()
	claims, err := h.issuer.ParseRefresh(raw)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid refresh token"})
		return
	}
	jti, _ := claims["jti"].(string)
	sess, err := h.sessionsSvc.Validate(ctx, jti)
	if err != nil {
		logger.Errorf("session lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid refresh token"})
		return
	}
	u, err := h.usersSvc.Get(ctx, sess.UserID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid refresh token"})
		return
	}
	access, err := h.issuer.AccessToken(sess.UserID, u.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": access})
}

// Logout clears the cookie, ends the refresh session and revokes the bearer
// access token if one is supplied.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	if at, ok := middleware.BearerToken(c); ok {
		if exp, err := tokens.ExpiresAt(at); err == nil {
			if err := sessions.BlacklistAccessToken(ctx, at, time.Until(exp)); err != nil {
				logger.Errorf("failed to blacklist access token: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to blacklist access token"})
				return
			}
		}
	}
	if raw, err := c.Cookie(refreshCookie); err == nil && raw != "" {
		if claims, err := h.issuer.ParseRefresh(raw); err == nil {
			jti, _ := claims["jti"].(string)
			if err := h.sessionsSvc.Revoke(ctx, jti); err != nil {
				logger.Warnf("failed to remove session: %v", err)
			}
		}
	}
	h.setRefreshCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	list, err := h.usersSvc.List(c.Request.Context())
	if err != nil {
		logger.Errorf("list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AuthHandler) UpdateRole(c *gin.Context) {
	var req struct {
		Role string `json:"role"`
	}
	_ = c.ShouldBindJSON(&req)
	u, err := h.usersSvc.UpdateRole(c.Request.Context(), c.Param("id"), req.Role)
	switch {
	case errors.Is(err, users.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, users.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.Errorf("update role: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully", "user": u.Public()})
}

// CurrentUser returns the caller. Tokens from the external identity provider
// carry no local user id, so those users are recorded on first sight.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	v, _ := c.Get("claims")
	claims, _ := v.(map[string]interface{})
	ctx := c.Request.Context()

	if id, ok := claims["userID"].(string); ok && id != "" {
		u, err := h.usersSvc.Get(ctx, id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, u.Public())
		return
	}
	u, err := h.usersSvc.UpsertFromClaims(ctx, claims)
	if err != nil {
		logger.Errorf("user upsert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	c.JSON(http.StatusOK, u.Public())
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, value, maxAge, "/", "", h.SecureCookie, true)
}
