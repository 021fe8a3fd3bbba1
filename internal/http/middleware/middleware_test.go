package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nedgladstone/cardball/internal/observability"
	"github.com/nedgladstone/cardball/internal/platform/ctxutil"
	"github.com/nedgladstone/cardball/internal/platform/logger"
)

func TestAttachTraceContextEchoesIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-1")
	req.Header.Set(headerTraceID, "trace-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil || seen.RequestID != "req-1" || seen.TraceID != "trace-1" {
		t.Fatalf("trace data = %+v", seen)
	}
	if rec.Header().Get(headerRequestID) != "req-1" || rec.Header().Get(headerTraceID) != "trace-1" {
		t.Fatalf("ids not echoed: %v", rec.Header())
	}
}

func TestAttachTraceContextGeneratesIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Header().Get(headerRequestID) == "" || rec.Header().Get(headerTraceID) == "" {
		t.Fatalf("ids should be generated: %v", rec.Header())
	}
}

func TestMetricsRecordsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	r := gin.New()
	r.Use(Metrics(m, "/feed"), RequestLogger(logger.Nop()))
	r.GET("/game/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/feed", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/game/abc", "/feed", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var b strings.Builder
	if err := m.WritePrometheus(&b); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, `route="/game/:id"`) || !strings.Contains(out, `status="404"`) {
		t.Fatalf("game route not recorded:\n%s", out)
	}
	if strings.Contains(out, `route="/feed"`) {
		t.Fatalf("streaming route should not be timed:\n%s", out)
	}
	if !strings.Contains(out, `route="unmatched"`) {
		t.Fatalf("unmatched route not recorded:\n%s", out)
	}
}

func TestRouteParamsNamesResource(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var got []interface{}
	capture := func(c *gin.Context) { got = routeParams(c, c.FullPath()) }
	r.PUT("/game/:id/lineup/:side", capture)
	r.GET("/player/:id", capture)

	cases := []struct {
		method, path string
		want         []interface{}
	}{
		{http.MethodPut, "/game/g1/lineup/home", []interface{}{"game_id", "g1", "side", "home"}},
		{http.MethodGet, "/player/p9", []interface{}{"player_id", "p9"}},
	}
	for _, tc := range cases {
		got = nil
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tc.method, tc.path, nil))
		if len(got) != len(tc.want) {
			t.Fatalf("%s: want %v, got %v", tc.path, tc.want, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: want %v, got %v", tc.path, tc.want, got)
			}
		}
	}
}
