package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"DMChat/apps/chat/internal/service"
	"DMChat/consts"
	"DMChat/pkg/logger"
	"DMChat/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var middlewareTestOnce sync.Once

func initMiddlewareTest() {
	middlewareTestOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		logger.ReplaceGlobal(zap.NewNop())
	})
}

type fakeVerifier struct {
	verifyFn func(context.Context, string) (*util.Claims, error)
}

func (f *fakeVerifier) VerifySession(ctx context.Context, token string) (*util.Claims, error) {
	return f.verifyFn(ctx, token)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestJWTAuthMiddleware(t *testing.T) {
	initMiddlewareTest()
	verifier := &fakeVerifier{verifyFn: func(_ context.Context, token string) (*util.Claims, error) {
		switch token {
		case "good":
			return &util.Claims{UserID: 5, SessionID: "s"}, nil
		case "broken":
			return nil, errors.New("store down")
		default:
			return nil, service.ErrUnauthorized
		}
	}}

	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(verifier), func(c *gin.Context) {
		id, ok := GetUserID(c)
		claims, _ := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok, "sid": claims.SessionID})
	})

	cases := []struct {
		name   string
		header string
		status int
		code   float64
	}{
		{"missing", "", http.StatusUnauthorized, consts.CodeUnauthorized},
		{"malformed", "Token good", http.StatusUnauthorized, consts.CodeUnauthorized},
		{"invalid", "Bearer nope", http.StatusUnauthorized, consts.CodeInvalidToken},
		{"internal", "Bearer broken", http.StatusInternalServerError, consts.CodeInternalError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, tc.code, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"id": float64(5), "ok": true, "sid": "s"}, decodeBody(t, w))
}

func TestGetClientIP(t *testing.T) {
	initMiddlewareTest()
	r := gin.New()
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, GetClientIP(c)) })

	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"real ip", map[string]string{"X-Real-IP": "1.2.3.4", "X-Forwarded-For": "5.6.7.8"}, "1.2.3.4"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "5.6.7.8, 10.0.0.1"}, "5.6.7.8"},
		{"garbage header", map[string]string{"X-Real-IP": "not-an-ip"}, "192.0.2.1"},
		{"remote addr", nil, "192.0.2.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ip", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
}

func TestIPRateLimitLocalFallback(t *testing.T) {
	initMiddlewareTest()
	limiter := NewRateLimiter(1, 2, nil)

	r := gin.New()
	r.Use(IPRateLimitMiddleware(limiter))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Real-IP", ip)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("1.1.1.1"))
	assert.Equal(t, http.StatusOK, hit("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("1.1.1.1"))
	// 不同 IP 独立计数
	assert.Equal(t, http.StatusOK, hit("2.2.2.2"))
}

func TestCorsMiddleware(t *testing.T) {
	initMiddlewareTest()
	r := gin.New()
	r.Use(CorsMiddleware([]string{"https://chat.example.com"}))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://chat.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://chat.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestGinRecovery(t *testing.T) {
	initMiddlewareTest()
	r := gin.New()
	r.Use(util.TraceLogger(), GinRecovery(false))
	r.GET("/panic", func(c *gin.Context) { panic("bad input") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(consts.CodeInternalError), body["code"])
	assert.NotEmpty(t, body["trace_id"])
}

func TestTimeoutMiddleware(t *testing.T) {
	initMiddlewareTest()
	r := gin.New()
	r.Use(TimeoutMiddleware(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}
