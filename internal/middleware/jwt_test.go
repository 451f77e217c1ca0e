package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lawhelp/auth-service/config"
	"github.com/lawhelp/auth-service/internal/service"
	ctxutil "github.com/lawhelp/auth-service/pkg/context"
)

func newTestRouter(t *testing.T) (*gin.Engine, *service.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := service.NewTokenService(config.JWTConfig{
		Secret:         "test-secret-key",
		ExpirationTime: time.Hour,
	})

	r := gin.New()
	r.GET("/protected", NewJWTMiddleware(tokens).RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": ctxutil.GetUserID(c.Request.Context()),
		})
	})
	return r, tokens
}

func TestRequireAuth_ValidToken(t *testing.T) {
	r, tokens := newTestRouter(t)

	token, err := tokens.Issue("acct-123", "user@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}
	if body := w.Body.String(); !strings.Contains(body, "acct-123") {
		t.Errorf("response %q missing account id", body)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not-a-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}
