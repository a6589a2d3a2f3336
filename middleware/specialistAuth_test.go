package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"beautypage/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guardedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/specialists/:specialistID/schedule")
	api.Use(JWTAuthSpecialistMiddleware(), SpecialistOwnerGuard())
	api.GET("/config", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"caller": c.GetString("specialistID")})
	})
	return r
}

func request(t *testing.T, r http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSpecialistAuth(t *testing.T) {
	r := guardedRouter()
	token, err := utils.GenerateToken("spec-1", time.Hour)
	require.NoError(t, err)

	t.Run("own schedule", func(t *testing.T) {
		w := request(t, r, "/api/specialists/spec-1/schedule/config", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"caller":"spec-1"`)
	})

	t.Run("foreign schedule looks missing", func(t *testing.T) {
		w := request(t, r, "/api/specialists/spec-2/schedule/config", token)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Schedule not found")
	})

	t.Run("missing token", func(t *testing.T) {
		w := request(t, r, "/api/specialists/spec-1/schedule/config", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := request(t, r, "/api/specialists/spec-1/schedule/config", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := utils.GenerateToken("spec-1", -time.Minute)
		require.NoError(t, err)
		w := request(t, r, "/api/specialists/spec-1/schedule/config", expired)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
