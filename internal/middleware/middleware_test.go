package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"github.com/bitfantasy/assetdesk/internal/desk/testutil"
	"github.com/bitfantasy/assetdesk/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whoami(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id": c.GetString("user_id"),
		"email":   c.GetString("user_email"),
		"role":    c.GetString("role"),
	})
}

func TestJWTAuth(t *testing.T) {
	r := testutil.SetupRouter()
	testutil.AuthGroup(r, "/api").GET("/me", whoami)

	t.Run("missing token", func(t *testing.T) {
		w := testutil.DoRequest(r, http.MethodGet, "/api/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.EqualValues(t, 40100, testutil.ParseResponse(w)["code"])
	})

	t.Run("bad signature", func(t *testing.T) {
		claims := jwt.MapClaims{"uid": "u-1", "role": "ats", "exp": time.Now().Add(time.Hour).Unix()}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
		require.NoError(t, err)
		w := testutil.DoRequest(r, http.MethodGet, "/api/me", nil, tok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.EqualValues(t, 40102, testutil.ParseResponse(w)["code"])
	})

	t.Run("no role claim", func(t *testing.T) {
		claims := jwt.MapClaims{"uid": "u-1", "exp": time.Now().Add(time.Hour).Unix()}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testutil.JWTSecret))
		require.NoError(t, err)
		w := testutil.DoRequest(r, http.MethodGet, "/api/me", nil, tok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.EqualValues(t, 40103, testutil.ParseResponse(w)["code"])
	})

	t.Run("valid bearer", func(t *testing.T) {
		tok := testutil.GenerateTestToken("u-1", "ats1@corp.test", entity.RoleATS)
		w := testutil.DoRequest(r, http.MethodGet, "/api/me", nil, tok)
		require.Equal(t, http.StatusOK, w.Code)
		resp := testutil.ParseResponse(w)
		assert.Equal(t, "u-1", resp["user_id"])
		assert.Equal(t, "ats1@corp.test", resp["email"])
		assert.Equal(t, "ats", resp["role"])
	})

	t.Run("query token", func(t *testing.T) {
		tok := testutil.GenerateTestToken("u-2", "mgr@corp.test", entity.RoleManager)
		w := testutil.DoRequest(r, http.MethodGet, "/api/me?token="+tok, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u-2", testutil.ParseResponse(w)["user_id"])
	})
}

func TestRequireRole(t *testing.T) {
	r := testutil.SetupRouter()
	testutil.AuthGroup(r, "/api").GET("/vendor", middleware.RequireRole("vendor"), whoami)

	cases := []struct {
		role entity.Role
		want int
	}{
		{entity.RoleVendor, http.StatusOK},
		{entity.RoleAdmin, http.StatusOK},
		{entity.RoleManager, http.StatusForbidden},
		{entity.RoleEmployee, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			tok := testutil.GenerateTestToken("u-1", "someone@corp.test", tc.role)
			w := testutil.DoRequest(r, http.MethodGet, "/api/vendor", nil, tok)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRateLimitPerCaller(t *testing.T) {
	r := testutil.SetupRouter()
	testutil.AuthGroup(r, "/api").POST("/bid", middleware.RateLimit(0.001, 2), whoami)

	first := testutil.GenerateTestToken("u-1", "a@corp.test", entity.RoleVendor)
	second := testutil.GenerateTestToken("u-2", "b@corp.test", entity.RoleVendor)

	for i := 0; i < 2; i++ {
		w := testutil.DoRequest(r, http.MethodPost, "/api/bid", nil, first)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := testutil.DoRequest(r, http.MethodPost, "/api/bid", nil, first)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.EqualValues(t, 42900, testutil.ParseResponse(w)["code"])

	w = testutil.DoRequest(r, http.MethodPost, "/api/bid", nil, second)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDPropagates(t *testing.T) {
	r := testutil.SetupRouter()
	r.Use(middleware.RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-42", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	r := testutil.SetupRouter()
	r.Use(middleware.CORS())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
