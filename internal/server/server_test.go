package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/reviewminer/reviewminer/internal/cache"
	"github.com/reviewminer/reviewminer/internal/model"
	"github.com/reviewminer/reviewminer/internal/pipeline"
)

func newTestServer(t *testing.T, c cache.Cache) *Server {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Encoder.Disabled = true
	cfg.QA.Disabled = true
	p, err := pipeline.New(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return New(p, c, time.Minute, zap.NewNop())
}

func postJSON(s *Server, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestExtractEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	rec := postJSON(s, "/extract", `{"text":"Twenty-three studies were included in this review. We searched MEDLINE and Embase through March 2024."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"lit_search_date":"March 2024"`) {
		t.Errorf("body = %s", body)
	}
}

func TestExtractRejectsEmptyText(t *testing.T) {
	s := newTestServer(t, nil)
	if rec := postJSON(s, "/extract", `{"text":""}`); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if rec := postJSON(s, "/extract", `{"text":"   "}`); rec.Code != http.StatusBadRequest {
		t.Errorf("whitespace-only status = %d, want 400", rec.Code)
	}
}

func TestExtractServesCachedRecords(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	s := newTestServer(t, c)
	body := `{"text":"Twenty-three studies were included in this review."}`

	first := postJSON(s, "/extract", body)
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d", first.Code)
	}
	second := postJSON(s, "/extract", body)
	if second.Code != http.StatusOK {
		t.Fatalf("second status = %d", second.Code)
	}
	if first.Body.String() == "" || !strings.Contains(second.Body.String(), `"articles"`) {
		t.Errorf("cached body = %s", second.Body.String())
	}
}

func TestAmstarEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	rec := postJSON(s, "/amstar", `{"text":"The protocol was registered with PROSPERO (CRD42023123456).","review_date":"2024-06-01"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"item_2_protocol":"Yes"`) {
		t.Errorf("body = %s", rec.Body.String())
	}

	if rec := postJSON(s, "/amstar", `{"text":"x","review_date":"June 2024"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}
	if rec := postJSON(s, "/amstar", `{"text":"x"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing date status = %d, want 400", rec.Code)
	}
}
