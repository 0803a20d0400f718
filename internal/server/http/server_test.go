package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rzbill/lodex/internal/catalog"
	cfgpkg "github.com/rzbill/lodex/internal/config"
	"github.com/rzbill/lodex/internal/runtime"
	logpkg "github.com/rzbill/lodex/pkg/log"
)

func newTestServer(t *testing.T) (*Server, *runtime.Runtime) {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.Fsync = "never"
	rt, err := runtime.Open(context.Background(), runtime.Options{DataDir: t.TempDir(), Config: cfg})
	if err != nil {
		t.Fatalf("rt open: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	logger, _ := logpkg.ApplyConfig(&logpkg.Config{Level: "error", Format: "text"})
	return New(rt, logger), rt
}

func serve(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeItems(t *testing.T, w *httptest.ResponseRecorder) []catalog.Item {
	t.Helper()
	var out struct {
		Items []catalog.Item `json:"items"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out.Items
}

func TestHealthHandler(t *testing.T) {
	s, _ := newTestServer(t)
	w := serve(s, http.MethodGet, "/v1/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("body: %s", w.Body.String())
	}
}

func TestSeedAndQuery(t *testing.T) {
	s, _ := newTestServer(t)

	w := serve(s, http.MethodPost, "/v1/items/seed", `{"count":300,"seed":5}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed status: %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"inserted":300`) {
		t.Fatalf("seed body: %s", w.Body.String())
	}

	w = serve(s, http.MethodGet, "/v1/items/count", "")
	if !strings.Contains(w.Body.String(), `"count":300`) {
		t.Fatalf("count body: %s", w.Body.String())
	}

	w = serve(s, http.MethodGet, "/v1/items?lower="+url.QueryEscape("ま")+"&limit=20", "")
	if w.Code != http.StatusOK {
		t.Fatalf("forward status: %d", w.Code)
	}
	fwd := decodeItems(t, w)
	if len(fwd) != 20 {
		t.Fatalf("forward len: %d", len(fwd))
	}
	for i, it := range fwd {
		if it.Name < "ま" {
			t.Fatalf("item %q below lower bound", it.Name)
		}
		if i > 0 && !catalog.Less(fwd[i-1], it) {
			t.Fatalf("forward page out of order at %d", i)
		}
	}

	w = serve(s, http.MethodGet, "/v1/items/reverse?upper="+url.QueryEscape("ま")+"&limit=5", "")
	rev := decodeItems(t, w)
	if len(rev) != 5 {
		t.Fatalf("reverse len: %d", len(rev))
	}
	for i, it := range rev {
		if it.Name >= "ま" {
			t.Fatalf("item %q not below upper bound", it.Name)
		}
		if i > 0 && !catalog.Less(it, rev[i-1]) {
			t.Fatalf("reverse page not descending at %d", i)
		}
	}

	w = serve(s, http.MethodGet, "/v1/items?offset=290", "")
	if got := decodeItems(t, w); len(got) != 10 {
		t.Fatalf("tail page len: %d", len(got))
	}
}

func TestClearHandler(t *testing.T) {
	s, _ := newTestServer(t)
	if w := serve(s, http.MethodPost, "/v1/items/seed", `{"count":10}`); w.Code != http.StatusCreated {
		t.Fatalf("seed status: %d", w.Code)
	}
	if w := serve(s, http.MethodPost, "/v1/items/clear", ""); w.Code != http.StatusNoContent {
		t.Fatalf("clear status: %d", w.Code)
	}
	w := serve(s, http.MethodGet, "/v1/items", "")
	if got := decodeItems(t, w); len(got) != 0 {
		t.Fatalf("items after clear: %d", len(got))
	}
}

func TestBadRequests(t *testing.T) {
	s, _ := newTestServer(t)
	cases := []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodGet, "/v1/items?limit=abc", "", http.StatusBadRequest},
		{http.MethodGet, "/v1/items?offset=-3", "", http.StatusBadRequest},
		{http.MethodGet, "/v1/items?filter=" + url.QueryEscape("name +"), "", http.StatusBadRequest},
		{http.MethodGet, "/v1/items/reverse?lower=b&upper=a", "", http.StatusOK},
		{http.MethodGet, "/v1/items?collection=" + url.QueryEscape("a/b"), "", http.StatusBadRequest},
		{http.MethodPost, "/v1/items", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/v1/items/seed", "", http.StatusMethodNotAllowed},
		{http.MethodPost, "/v1/items/seed", `{"count":0}`, http.StatusBadRequest},
		{http.MethodPost, "/v1/items/seed", `not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if w := serve(s, tc.method, tc.target, tc.body); w.Code != tc.want {
			t.Errorf("%s %s: status %d, want %d (%s)", tc.method, tc.target, w.Code, tc.want, w.Body.String())
		}
	}
}

func TestFilteredCount(t *testing.T) {
	s, rt := newTestServer(t)
	store, err := rt.DefaultCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	items := []catalog.Item{{ID: "1", Name: "さくら"}, {ID: "2", Name: "さくらんぼ"}, {ID: "3", Name: "もも"}}
	if err := store.Insert(context.Background(), items); err != nil {
		t.Fatalf("insert: %v", err)
	}
	filter := url.QueryEscape(catalog.SearchFilter("さくら"))
	w := serve(s, http.MethodGet, "/v1/items/count?filter="+filter, "")
	if !strings.Contains(w.Body.String(), `"count":2`) {
		t.Fatalf("count body: %s", w.Body.String())
	}
}
