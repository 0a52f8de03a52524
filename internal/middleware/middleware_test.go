package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := serve(r, http.MethodGet, "/", http.Header{"X-Request-Id": {"given"}})
	if w.Body.String() != "given" || w.Header().Get(HeaderRequestID) != "given" {
		t.Errorf("reused id: body %q header %q", w.Body.String(), w.Header().Get(HeaderRequestID))
	}

	w = serve(r, http.MethodGet, "/", http.Header{"X-Request-Id": {strings.Repeat("x", 65)}})
	if len(w.Body.String()) != 36 {
		t.Errorf("oversized id should be replaced by a uuid, got %q", w.Body.String())
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://crm.example.com"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/", http.Header{"Origin": {"https://crm.example.com"}})
	if w.Header().Get("Access-Control-Allow-Origin") != "https://crm.example.com" {
		t.Error("allowed origin not echoed")
	}

	w = serve(r, http.MethodGet, "/", http.Header{"Origin": {"https://evil.example.com"}})
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unknown origin should not be allowed")
	}

	w = serve(r, http.MethodOptions, "/", http.Header{"Origin": {"https://crm.example.com"}})
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "s3cret"

	r := gin.New()
	r.Use(AuthMiddleware(secret))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID)+"/"+c.GetString(ContextUserRole))
	})

	sign := func(method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	exp := time.Now().Add(time.Hour).Unix()

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", http.StatusUnauthorized, ""},
		{"garbage", "Bearer abc", http.StatusUnauthorized, ""},
		{"wrong key", "Bearer " + sign(jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "1", "exp": exp}), http.StatusUnauthorized, ""},
		{"expired", "Bearer " + sign(jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "1", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized, ""},
		{"no subject", "Bearer " + sign(jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"exp": exp}), http.StatusUnauthorized, ""},
		{"string subject", "Bearer " + sign(jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "7", "role": "admin", "exp": exp}), http.StatusOK, "7/admin"},
		{"numeric subject", "bearer " + sign(jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": 12, "exp": exp}), http.StatusOK, "12/"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			if tc.header != "" {
				h.Set("Authorization", tc.header)
			}
			w := serve(r, http.MethodGet, "/", h)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}
			if tc.body != "" && w.Body.String() != tc.body {
				t.Errorf("body = %q, want %q", w.Body.String(), tc.body)
			}
		})
	}
}

func TestRateLimitWithoutRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(nil, "book", 1, time.Minute, zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		if w := serve(r, http.MethodGet, "/", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, w.Code)
		}
	}
}

func TestRateLimitSubSecondWindowConcurrent(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(nil, "book", 1, 500*time.Millisecond, zap.NewNop()))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	var wg sync.WaitGroup
	codes := make([]int, 16)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = serve(r, http.MethodGet, "/x", nil).Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		if code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
}

func TestLoggerDoesNotAlterResponse(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger(zap.NewNop()))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	if w := serve(r, http.MethodGet, "/missing?x=1", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
}
