package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/conradklek/webs/pkg/reactive"
	"github.com/conradklek/webs/pkg/vdom"
)

func testEnv() *vdom.Env {
	env := vdom.NewEnv(reactive.NewRuntime())
	env.Components = map[string]*vdom.Definition{
		"Greeting": {
			Name: "Greeting",
			Setup: func(props *reactive.Object, ctx *vdom.SetupContext) map[string]any {
				return map[string]any{"message": "hello"}
			},
			Render: func(ctx *vdom.RenderContext) *vdom.VNode {
				return vdom.El("h1", nil, vdom.Interp(ctx.Get("message").(string)))
			},
		},
		"Broken": {
			Name: "Broken",
			Render: func(ctx *vdom.RenderContext) *vdom.VNode {
				panic("boom")
			},
		},
	}
	return env
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Title = "test app"
	srv := httptest.NewServer(New(testEnv(), cfg, zerolog.Nop()).Router())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestPageRendersComponent(t *testing.T) {
	srv := testServer(t)

	resp, body := get(t, srv.URL+"/c/Greeting")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(body, "<h1>") || !strings.Contains(body, "hello") {
		t.Errorf("body missing rendered component: %s", body)
	}
	if !strings.Contains(body, "<title>test app</title>") {
		t.Errorf("body missing title: %s", body)
	}
}

func TestPageEmbedsStatePayload(t *testing.T) {
	srv := testServer(t)

	_, body := get(t, srv.URL+"/c/Greeting?tab=settings")
	if !strings.Contains(body, `id="webs-state"`) {
		t.Fatalf("body missing state script: %s", body)
	}
	if !strings.Contains(body, `"component":"Greeting"`) {
		t.Errorf("payload missing component name: %s", body)
	}
	if !strings.Contains(body, `"message":"hello"`) {
		t.Errorf("payload missing state: %s", body)
	}
	if !strings.Contains(body, `"tab":"settings"`) {
		t.Errorf("payload missing query params: %s", body)
	}
}

func TestPageUnknownComponentIs404(t *testing.T) {
	srv := testServer(t)

	resp, _ := get(t, srv.URL+"/c/Nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestPageRenderPanicContainedInComment(t *testing.T) {
	srv := testServer(t)

	// A panicking component degrades to an error comment in the markup
	// rather than a 500.
	resp, body := get(t, srv.URL+"/c/Broken")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "webs:error") {
		t.Errorf("body missing error comment: %s", body)
	}
}

func TestHealthz(t *testing.T) {
	srv := testServer(t)

	resp, body := get(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || body != "ok" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t)
	get(t, srv.URL+"/c/Greeting")

	resp, body := get(t, srv.URL+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "webs_render_duration_seconds") {
		t.Errorf("metrics output missing render histogram")
	}
}

func TestMetricsDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableMetrics = false
	srv := httptest.NewServer(New(testEnv(), cfg, zerolog.Nop()).Router())
	defer srv.Close()

	resp, _ := get(t, srv.URL+"/metrics")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
