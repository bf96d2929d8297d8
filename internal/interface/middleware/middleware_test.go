package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lead-funnel/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

// identity presets the context the way Session would.
func identity(userID string, admin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(CtxUserID, userID)
			c.Set(CtxIsAdmin, admin)
		}
		c.Next()
	}
}

func serve(r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestRequireAuthAndAdmin(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		admin     bool
		authCode  int
		adminCode int
	}{
		{"anonymous", "", false, http.StatusUnauthorized, http.StatusForbidden},
		{"operator", "u1", false, http.StatusOK, http.StatusForbidden},
		{"admin", "u2", true, http.StatusOK, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := 0
			r := gin.New()
			r.Use(identity(tt.userID, tt.admin))
			r.GET("/auth", RequireAuth(), func(c *gin.Context) { reached++; c.Status(http.StatusOK) })
			r.GET("/admin", RequireAdmin(), func(c *gin.Context) { reached++; c.Status(http.StatusOK) })

			rec, body := serve(r, httptest.NewRequest(http.MethodGet, "/auth", nil))
			assert.Equal(t, tt.authCode, rec.Code)
			if tt.authCode == http.StatusUnauthorized {
				assert.Equal(t, "Authentication required", body["message"])
			}
			rec, body = serve(r, httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tt.adminCode, rec.Code)
			if tt.adminCode == http.StatusForbidden {
				assert.Equal(t, "Admin access required", body["message"])
			}

			want := 0
			for _, code := range []int{tt.authCode, tt.adminCode} {
				if code == http.StatusOK {
					want++
				}
			}
			assert.Equal(t, want, reached)
		})
	}
}

func TestRecoveryReturnsEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware(), Recovery(helpers.NewDiscardLogger()))
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	rec, body := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["message"])
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, rec.Body.String(), "kaboom")
	assert.Equal(t, rec.Header().Get(RequestIDHeader), body["request_id"])
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare wins", map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"}, "203.0.113.7"},
		{"left-most forwarded", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, "198.51.100.1"},
		{"garbage falls back", map[string]string{"X-Forwarded-For": "nope"}, "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			r := gin.New()
			r.Use(RealIP())
			r.GET("/", func(c *gin.Context) { got = c.GetString("real_ip") })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			serve(r, req)
			assert.Equal(t, tt.want, got)
		})
	}
}
