package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-jobmatch-backend/config"
	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type roleMap map[string]string

func (m roleMap) GetByUserID(_ context.Context, userID string) (*domain.UserProfile, error) {
	role, ok := m[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.UserProfile{UserID: userID, Role: role}, nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.GET("/conflict", func(c *gin.Context) { _ = c.Error(apperror.Conflict("A job sync is already in progress")) })
	r.GET("/internal", func(c *gin.Context) { _ = c.Error(errors.New("pq: password authentication failed")) })
	r.GET("/wrapped", func(c *gin.Context) { _ = c.Error(apperror.Internal(errors.New("secret detail"))) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conflict", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, "A job sync is already in progress", body.Message)
	assert.NotEmpty(t, body.RequestID)

	for _, path := range []string{"/internal", "/wrapped"} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "secret")
		assert.NotContains(t, w.Body.String(), "password")
	}
}

func TestRequestIDReusesValidHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(string(domain.KeyRequestID))) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "3f2b8c1e-0d4a-4f7e-9a51-6b0c2d9e8f10")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "3f2b8c1e-0d4a-4f7e-9a51-6b0c2d9e8f10", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
	assert.Len(t, w.Body.String(), 36)
}

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func authRouter(roles RoleSource) *gin.Engine {
	cfg := &config.Config{SupabaseJWTSecret: "test-secret"}
	r := gin.New()
	r.Use(AuthMiddleware(nil, cfg, roles))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":   c.GetString(string(domain.KeyUserID)),
			"role": c.GetString(string(domain.KeyUserRole)),
		})
	})
	admin := r.Group("/admin", AdminOnly(nil))
	admin.GET("", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := authRouter(roleMap{"admin1": domain.RoleAdmin})
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signHS256(t, "other", jwt.MapClaims{"sub": "u1", "exp": exp}))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown profile falls back to candidate", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signHS256(t, "test-secret", jwt.MapClaims{"sub": "u1", "exp": exp, "role": "admin"}))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"u1","role":"candidate"}`, w.Body.String())
	})

	t.Run("cookie token and stored admin role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: signHS256(t, "test-secret", jwt.MapClaims{"sub": "admin1", "exp": exp})})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("candidate denied admin routes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+signHS256(t, "test-secret", jwt.MapClaims{"sub": "u1", "exp": exp}))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRateLimiterInMemory(t *testing.T) {
	rl := NewRateLimiter(nil)
	r := gin.New()
	r.Use(rl.Middleware(GlobalRateLimitConfig(2, time.Minute)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
		if i == 2 {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
			assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		}
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("https://jobs.example.com"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://jobs.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://jobs.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCSRFMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CSRFMiddleware())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := []struct {
		name   string
		setup  func(*http.Request)
		status int
	}{
		{"bearer bypasses", func(req *http.Request) { req.Header.Set("Authorization", "Bearer t") }, http.StatusNoContent},
		{"anonymous passes through", func(*http.Request) {}, http.StatusNoContent},
		{"cookie without header", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "auth_token", Value: "t"})
			req.AddCookie(&http.Cookie{Name: CSRFTokenCookieName, Value: "abc"})
		}, http.StatusForbidden},
		{"cookie with mismatched header", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "auth_token", Value: "t"})
			req.AddCookie(&http.Cookie{Name: CSRFTokenCookieName, Value: "abc"})
			req.Header.Set(CSRFTokenHeaderName, "xyz")
		}, http.StatusForbidden},
		{"cookie with matching header", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "auth_token", Value: "t"})
			req.AddCookie(&http.Cookie{Name: CSRFTokenCookieName, Value: "abc"})
			req.Header.Set(CSRFTokenHeaderName, "abc")
		}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/x", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
