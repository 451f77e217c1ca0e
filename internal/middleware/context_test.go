package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRequestTimeoutMiddleware_AttachesDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var deadline time.Time
	var hasDeadline bool

	r := gin.New()
	r.Use(RequestTimeoutMiddleware(30 * time.Second))
	r.GET("/", func(c *gin.Context) {
		deadline, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	start := time.Now()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !hasDeadline {
		t.Fatal("request context carries no deadline")
	}
	if remaining := deadline.Sub(start); remaining > 30*time.Second || remaining <= 0 {
		t.Errorf("deadline %v from start, want within (0, 30s]", remaining)
	}
}

func TestRequestTimeoutMiddleware_ExpiredContextAborts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handlerRan := false
	r := gin.New()
	r.Use(RequestTimeoutMiddleware(-time.Second))
	r.GET("/", func(c *gin.Context) {
		handlerRan = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if handlerRan {
		t.Error("handler ran on an already-expired context")
	}
	if w.Code != http.StatusRequestTimeout {
		t.Errorf("status = %d, want %d", w.Code, http.StatusRequestTimeout)
	}
}
