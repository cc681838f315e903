package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apierrors "github.com/skillsenselab/freightway/errors"
	"github.com/skillsenselab/freightway/logger"
	"github.com/skillsenselab/freightway/server"
	"github.com/skillsenselab/freightway/server/endpoint"
)

func newTestServer(t *testing.T, staticDir string) *server.Server {
	t.Helper()
	cfg := server.Config{ServiceName: "freightway-test", StaticDir: staticDir}
	cfg.ApplyDefaults()
	cfg.StaticDir = staticDir
	return server.New(cfg, logger.NewDefault("test"))
}

func writeAppShell(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	shell := []byte("<!doctype html><title>freightway</title>")
	if err := os.WriteFile(filepath.Join(dir, "index.html"), shell, 0o644); err != nil {
		t.Fatalf("writing app shell: %v", err)
	}
	return dir
}

// ---------------------------------------------------------------------------
// Not-found handling
// ---------------------------------------------------------------------------

func TestNoRoute_JSONClientGetsStructured404(t *testing.T) {
	s := newTestServer(t, writeAppShell(t))

	req := httptest.NewRequest("GET", "/api/v1/nope", http.NoBody)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	s.Engine().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var body apierrors.ResponseBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Code != http.StatusNotFound || body.Message != "Resource not found." {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestNoRoute_DocumentClientGetsAppShell(t *testing.T) {
	s := newTestServer(t, writeAppShell(t))

	req := httptest.NewRequest("GET", "/shipments/42", http.NoBody)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")
	rr := httptest.NewRecorder()
	s.Engine().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected app shell with 200, got %d", rr.Code)
	}
	if got := rr.Body.String(); !strings.Contains(got, "freightway") {
		t.Errorf("expected app shell HTML, got %q", got)
	}
}

func TestNoRoute_MissingAppShellFallsBackTo404(t *testing.T) {
	s := newTestServer(t, t.TempDir())

	req := httptest.NewRequest("GET", "/shipments/42", http.NoBody)
	req.Header.Set("Accept", "text/html")
	rr := httptest.NewRecorder()
	s.Engine().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without app shell, got %d", rr.Code)
	}
}

// ---------------------------------------------------------------------------
// Default endpoints
// ---------------------------------------------------------------------------

func TestRegisterDefaultEndpoints(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	s.RegisterDefaultEndpoints(func() (string, string) {
		return "discovery", endpoint.StatusDegraded
	})

	for _, path := range []string{"/health", "/info", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			s.Engine().ServeHTTP(rr, httptest.NewRequest("GET", path, http.NoBody))
			if rr.Code != http.StatusOK {
				t.Fatalf("expected 200 from %s, got %d", path, rr.Code)
			}
		})
	}

	rr := httptest.NewRecorder()
	s.Engine().ServeHTTP(rr, httptest.NewRequest("GET", "/health", http.NoBody))

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("health response is not valid JSON: %v", err)
	}
	if body["status"] != endpoint.StatusDegraded {
		t.Errorf("expected degraded overall status, got %v", body["status"])
	}
}

// ---------------------------------------------------------------------------
// Route groups
// ---------------------------------------------------------------------------

func TestMountGroups_RoutesUnderPrefix(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	s.MountGroups(server.RouteGroupFunc{
		GroupName: "shipments",
		Routes: func(r gin.IRouter) {
			r.GET("/shipments", func(c *gin.Context) {
				server.RespondOK(c, gin.H{"shipments": []string{}})
			})
		},
	})

	rr := httptest.NewRecorder()
	s.Engine().ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/shipments", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from mounted group, got %d", rr.Code)
	}
}

func TestMountGroups_HandlerErrorsAreTranslated(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	s.MountGroups(server.RouteGroupFunc{
		GroupName: "shipments",
		Routes: func(r gin.IRouter) {
			r.GET("/shipments/:id", func(c *gin.Context) {
				server.RespondWithError(c, apierrors.NotFound("shipment"))
			})
		},
	})

	req := httptest.NewRequest("GET", "/api/v1/shipments/42", http.NoBody)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	s.Engine().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var body apierrors.ResponseBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Message != "The requested shipment was not found." {
		t.Errorf("unexpected message: %q", body.Message)
	}
}

func TestHandler_ErrorResponsesCarryCORSHeaders(t *testing.T) {
	s := newTestServer(t, t.TempDir())

	req := httptest.NewRequest("GET", "/api/v1/nope", http.NoBody)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Origin", "https://ui.example.com")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://ui.example.com" {
		t.Errorf("expected CORS headers on the error response, got %q", got)
	}
}

func TestRespondNoContent(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	s.MountGroups(server.RouteGroupFunc{
		GroupName: "shipments",
		Routes: func(r gin.IRouter) {
			r.DELETE("/shipments/:id", func(c *gin.Context) {
				server.RespondNoContent(c)
			})
		},
	})

	rr := httptest.NewRecorder()
	s.Engine().ServeHTTP(rr, httptest.NewRequest("DELETE", "/api/v1/shipments/42", http.NoBody))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rr.Body.String())
	}
}

func TestBindJSON_MalformedBodyGetsFixed400(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	s.MountGroups(server.RouteGroupFunc{
		GroupName: "shipments",
		Routes: func(r gin.IRouter) {
			r.POST("/shipments", func(c *gin.Context) {
				var payload struct {
					Name string `json:"name"`
				}
				if !server.BindJSON(c, &payload) {
					return
				}
				server.RespondCreated(c, payload)
			})
		},
	})

	req := httptest.NewRequest("POST", "/api/v1/shipments", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Engine().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var body apierrors.ResponseBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Code != http.StatusBadRequest || body.Message != "Bad request." {
		t.Errorf("unexpected body: %+v", body)
	}
}
