package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quillworks/quill/pkg/module"
)

func echoPath() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(r.URL.Path))
	})
}

func TestNewValidatesPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"empty prefix", ""},
		{"unrooted prefix", "api"},
		{"multi-level prefix", "/api/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%q) did not panic", tt.prefix)
				}
			}()
			module.New(tt.prefix, echoPath())
		})
	}
}

func TestModuleStripsPrefix(t *testing.T) {
	m := module.New("/api", echoPath())

	tests := []struct {
		name string
		path string
		want string
	}{
		{"nested path", "/api/specs", "/specs"},
		{"bare prefix", "/api", "/"},
		{"deep path", "/api/specs/123/compile", "/specs/123/compile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", tt.path, nil)
			m.Serve(rec, req)

			if got := rec.Body.String(); got != tt.want {
				t.Errorf("inner path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModuleDoesNotMutateRequest(t *testing.T) {
	m := module.New("/api", echoPath())

	req := httptest.NewRequest("GET", "/api/specs", nil)
	m.Serve(httptest.NewRecorder(), req)

	if req.URL.Path != "/api/specs" {
		t.Errorf("original request path = %q, want /api/specs", req.URL.Path)
	}
}

func TestModuleMiddleware(t *testing.T) {
	m := module.New("/api", echoPath())
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test", "applied")
			next.ServeHTTP(w, r)
		})
	})

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api/specs", nil))

	if got := rec.Header().Get("X-Test"); got != "applied" {
		t.Errorf("X-Test header = %q, want applied", got)
	}
}

func TestRouterDispatch(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/api", echoPath()))
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("healthy"))
	})

	tests := []struct {
		name string
		path string
		want string
	}{
		{"module route", "/api/specs", "/specs"},
		{"native route", "/healthz", "healthy"},
		{"trailing slash trimmed", "/api/specs/", "/specs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", tt.path, nil)
			router.ServeHTTP(rec, req)

			if got := rec.Body.String(); got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRouterUnknownPathFallsThrough(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/api", echoPath()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/unknown", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
