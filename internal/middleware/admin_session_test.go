package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eduforge/eduforge-api/pkg/jwt"
	"github.com/eduforge/eduforge-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Initialize logger for tests
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "test"}) //nolint:errcheck
}

func sessionRouter(tm *jwt.TokenManager) *gin.Engine {
	router := gin.New()
	router.GET("/protected", AdminSessionMiddleware(tm, "", false), func(c *gin.Context) {
		claims, err := GetAdminSession(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": claims.Email})
	})
	return router
}

func TestAdminSessionMiddleware_ValidCookie(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "eduforge-api", 1)
	token, err := tm.GenerateToken("admin", "ops@eduforge.io", "Admin", "admin")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AdminSessionCookieName, Value: token})
	sessionRouter(tm).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ops@eduforge.io")
}

func TestAdminSessionMiddleware_MissingCookie(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "eduforge-api", 1)

	w := httptest.NewRecorder()
	sessionRouter(tm).ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminSessionMiddleware_TamperedToken(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "eduforge-api", 1)
	other := jwt.NewTokenManager("different-secret", "eduforge-api", 1)
	token, err := other.GenerateToken("admin", "ops@eduforge.io", "Admin", "admin")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AdminSessionCookieName, Value: token})
	sessionRouter(tm).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// The invalid cookie gets cleared
	assert.Contains(t, w.Header().Get("Set-Cookie"), AdminSessionCookieName+"=;")
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("Referrer-Policy"))
}

func TestBodySizeLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(BodySizeLimitMiddleware(10))
	router.POST("/", func(c *gin.Context) {
		if _, err := c.GetRawData(); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader("this body is way past ten bytes"))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/", strings.NewReader("tiny"))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_BlocksBeyondBurst(t *testing.T) {
	router := gin.New()
	rl := NewRateLimiter(1, 2)
	router.GET("/", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
	assert.Equal(t, http.StatusTooManyRequests, codes[3])
}
