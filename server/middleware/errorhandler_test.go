package middleware_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apierrors "github.com/skillsenselab/freightway/errors"
	"github.com/skillsenselab/freightway/logger"
	"github.com/skillsenselab/freightway/server/middleware"
)

func newInterceptedEngine(h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(middleware.ErrorInterceptor(logger.NewDefault("test")))
	e.GET("/t", h)
	return e
}

func decodeErrorBody(t *testing.T, rr *httptest.ResponseRecorder) apierrors.ResponseBody {
	t.Helper()
	var body apierrors.ResponseBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v (body: %s)", err, rr.Body.String())
	}
	return body
}

// ---------------------------------------------------------------------------
// ErrorInterceptor
// ---------------------------------------------------------------------------

func TestErrorInterceptor_SuccessPassesThrough(t *testing.T) {
	e := newInterceptedEngine(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, httptest.NewRequest("GET", "/t", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestErrorInterceptor_PanicBecomesServerError(t *testing.T) {
	e := newInterceptedEngine(func(_ *gin.Context) {
		panic(fmt.Errorf("db password is hunter2"))
	})

	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, httptest.NewRequest("GET", "/t", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	body := decodeErrorBody(t, rr)
	if body.Code != http.StatusInternalServerError {
		t.Errorf("expected code 500, got %d", body.Code)
	}
	if body.Message != "Server Error" {
		t.Errorf("expected generic message, got %q", body.Message)
	}
}

func TestErrorInterceptor_NeverLeaksInternals(t *testing.T) {
	secret := "connection refused to 10.0.0.5:5432"
	e := newInterceptedEngine(func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("query users: %s", secret))
	})

	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, httptest.NewRequest("GET", "/t", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if got := rr.Body.String(); strings.Contains(got, secret) {
		t.Errorf("internal details leaked into response: %s", got)
	}
}

func TestErrorInterceptor_APIErrorKeepsStatusAndMessage(t *testing.T) {
	e := newInterceptedEngine(func(c *gin.Context) {
		_ = c.Error(apierrors.NotFound("shipment"))
	})

	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, httptest.NewRequest("GET", "/t", http.NoBody))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	body := decodeErrorBody(t, rr)
	if body.Message != "The requested shipment was not found." {
		t.Errorf("unexpected message: %q", body.Message)
	}
}

func TestErrorInterceptor_WrappedAPIErrorUnwraps(t *testing.T) {
	e := newInterceptedEngine(func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("lookup: %w", apierrors.Forbidden("No access.")))
	})

	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, httptest.NewRequest("GET", "/t", http.NoBody))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestErrorInterceptor_MalformedRequestFixedBody(t *testing.T) {
	for _, accept := range []string{"", "application/json", "text/html"} {
		t.Run("accept="+accept, func(t *testing.T) {
			e := newInterceptedEngine(func(c *gin.Context) {
				_ = c.Error(fmt.Errorf("%w: invalid JSON body", apierrors.ErrMalformedRequest))
			})

			req := httptest.NewRequest("GET", "/t", http.NoBody)
			if accept != "" {
				req.Header.Set("Accept", accept)
			}
			rr := httptest.NewRecorder()
			e.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
			body := decodeErrorBody(t, rr)
			if body.Code != http.StatusBadRequest || body.Message != "Bad request." {
				t.Errorf("unexpected body: %+v", body)
			}
		})
	}
}

func TestErrorInterceptor_HandlerResponseNotOverwritten(t *testing.T) {
	e := newInterceptedEngine(func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"state": "queued"})
		_ = c.Error(apierrors.Internal(fmt.Errorf("late failure")))
	})

	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, httptest.NewRequest("GET", "/t", http.NoBody))

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected handler's 202 to stand, got %d", rr.Code)
	}
}
