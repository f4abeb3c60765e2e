package handlers

import (
	"net/http"

	"github.com/eduforge/eduforge-api/config"
	"github.com/eduforge/eduforge-api/internal/middleware"
	"github.com/eduforge/eduforge-api/pkg/jwt"
	"github.com/eduforge/eduforge-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminAuthHandler issues and clears the admin session cookie
type AdminAuthHandler struct {
	tokenManager *jwt.TokenManager
	sessionCfg   config.AdminSessionConfig
}

func NewAdminAuthHandler(tokenManager *jwt.TokenManager, sessionCfg config.AdminSessionConfig) *AdminAuthHandler {
	return &AdminAuthHandler{
		tokenManager: tokenManager,
		sessionCfg:   sessionCfg,
	}
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/admin/auth/login
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body",
			ParseValidationErrors(err), err)
		return
	}

	// Both comparisons run timing-safe so a mismatched email does not return
	// measurably faster than a mismatched password.
	emailOK := jwt.TimingSafeCompare(req.Email, h.sessionCfg.AdminEmail)
	passOK := jwt.TimingSafeCompare(req.Password, h.sessionCfg.AdminPassword)
	if h.sessionCfg.AdminEmail == "" || !emailOK || !passOK {
		logger.Warn("Admin login rejected",
			zap.String("client_ip", c.ClientIP()))
		respondError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := h.tokenManager.GenerateToken("admin", req.Email, "Admin", "admin")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create session", err)
		return
	}

	ttlSeconds := int(h.tokenManager.GetExpirationTime().Seconds())
	middleware.SetAdminSessionCookie(c, token, ttlSeconds,
		h.sessionCfg.CookieDomain, h.sessionCfg.CookieSecure)

	logger.Info("Admin session created", zap.String("email", req.Email))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout handles POST /api/v1/admin/auth/logout
func (h *AdminAuthHandler) Logout(c *gin.Context) {
	middleware.ClearAdminSessionCookie(c, h.sessionCfg.CookieDomain, h.sessionCfg.CookieSecure)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me handles GET /api/v1/admin/auth/me behind the session middleware
func (h *AdminAuthHandler) Me(c *gin.Context) {
	claims, err := middleware.GetAdminSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email": claims.Email,
		"name":  claims.Name,
		"role":  claims.Role,
	})
}
