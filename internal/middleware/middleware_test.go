package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eupolar/eupolar-server/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	})
	return r
}

func perform(r http.Handler, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) domain.APIError {
	t.Helper()
	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}

func TestSecurityHeaders(t *testing.T) {
	w := perform(newRouter(SecurityHeaders()), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestCorrelationID(t *testing.T) {
	t.Run("generated", func(t *testing.T) {
		w := perform(newRouter(CorrelationID()), nil)
		assert.Len(t, w.Header().Get(CorrelationIDHeader), 36)
	})

	t.Run("propagated", func(t *testing.T) {
		w := perform(newRouter(CorrelationID()), map[string]string{CorrelationIDHeader: "abc-123"})
		assert.Equal(t, "abc-123", w.Header().Get(CorrelationIDHeader))
	})
}

func TestRequireUser(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{"present", "user-1", http.StatusOK, "user-1"},
		{"trimmed", "  user-2 ", http.StatusOK, "user-2"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"blank", "   ", http.StatusUnauthorized, ""},
		{"too long", strings.Repeat("a", 129), http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := map[string]string{}
			if tt.header != "" {
				header[UserIDHeader] = tt.header
			}
			w := perform(newRouter(CorrelationID(), RequireUser()), header)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), tt.wantUser)
				return
			}
			apiErr := decodeAPIError(t, w)
			assert.Equal(t, domain.ErrCodeAuthentication, apiErr.Code)
			assert.NotEmpty(t, apiErr.RequestID)
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(RequestTimeout(10 * time.Millisecond))
	r.GET("/test", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, time.Second)
		<-c.Request.Context().Done()
		c.Status(http.StatusGatewayTimeout)
	})

	w := perform(r, nil)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestAuditLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := newRouter(CorrelationID(), AuditLogger(logger), RequireUser())

	perform(r, map[string]string{UserIDHeader: "user-1"})
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "user-1", entry.Data["user_id"])
	assert.Equal(t, "/test", entry.Data["path"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])

	perform(r, nil)
	entry = hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.NotContains(t, entry.Data, "user_id")
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(domain.RateLimitConfig{Enabled: true, RequestsPerSecond: 1, Burst: 2})
	r := newRouter(RequireUser(), limiter.Middleware())
	user1 := map[string]string{UserIDHeader: "user-1"}

	assert.Equal(t, http.StatusOK, perform(r, user1).Code)
	assert.Equal(t, http.StatusOK, perform(r, user1).Code)

	w := perform(r, user1)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, domain.ErrCodeRateLimit, decodeAPIError(t, w).Code)

	// buckets are per user
	assert.Equal(t, http.StatusOK, perform(r, map[string]string{UserIDHeader: "user-2"}).Code)
	assert.Equal(t, 2, limiter.Len())
}

func TestRateLimiter_Cleanup(t *testing.T) {
	limiter := NewRateLimiter(domain.RateLimitConfig{RequestsPerSecond: 10, Burst: 10})
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	allowed, _ := limiter.Allow("user-1")
	require.True(t, allowed)
	now = now.Add(idleLimiterTTL / 2)
	limiter.Allow("user-2")

	now = now.Add(idleLimiterTTL/2 + time.Second)
	limiter.Cleanup()
	assert.Equal(t, 1, limiter.Len())
}

func TestRateLimiter_FallsBackToClientIP(t *testing.T) {
	limiter := NewRateLimiter(domain.RateLimitConfig{RequestsPerSecond: 1, Burst: 1})
	r := newRouter(limiter.Middleware())

	assert.Equal(t, http.StatusOK, perform(r, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, nil).Code)
}
