package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/lindenmoor/teahouse/backend/internal/llm"
	"github.com/lindenmoor/teahouse/backend/internal/model/catalog"
	chatmodel "github.com/lindenmoor/teahouse/backend/internal/model/chat"
	"github.com/lindenmoor/teahouse/backend/internal/service/advisor"
	"github.com/lindenmoor/teahouse/backend/internal/service/memory"
	"github.com/lindenmoor/teahouse/backend/pkg/llmerr"
)

type fakeClient struct {
	chunks []string
	err    error
}

func (f *fakeClient) Complete(ctx context.Context, messages []chatmodel.Message, opts llm.Options) (*llm.Completion, error) {
	return f.CompleteStream(ctx, messages, opts, nil)
}

func (f *fakeClient) CompleteStream(ctx context.Context, messages []chatmodel.Message, opts llm.Options, onChunk func(string)) (*llm.Completion, error) {
	if f.err != nil {
		return nil, f.err
	}
	var full strings.Builder
	for _, chunk := range f.chunks {
		full.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	return &llm.Completion{Content: full.String()}, nil
}

func setupRouter(t *testing.T, client *fakeClient) (*chi.Mux, *memory.Store) {
	t.Helper()
	items, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	store := memory.NewStore()
	advisorSvc := advisor.NewService(store, client, 0)
	handler := New(advisorSvc, catalog.NewMemoryStore(items))

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, store
}

func TestStreamTurn(t *testing.T) {
	r, store := setupRouter(t, &fakeClient{chunks: []string{"Sencha ", "is a fine pick."}})

	req := httptest.NewRequest(http.MethodGet, "/stream/session-1?message=hello", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	body := resp.Body.String()
	for _, want := range []string{"event: start", "event: chunk", "event: end", "Sencha "} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q, got:\n%s", want, body)
		}
	}

	history := store.History("session-1")
	if len(history) != 2 {
		t.Fatalf("expected persisted exchange, got %d messages", len(history))
	}
	if history[1].Content != "Sencha is a fine pick." {
		t.Fatalf("unexpected assistant message: %q", history[1].Content)
	}
}

func TestStreamMissingMessage(t *testing.T) {
	r, _ := setupRouter(t, &fakeClient{})

	req := httptest.NewRequest(http.MethodGet, "/stream/session-1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestStreamUnknownProduct(t *testing.T) {
	r, _ := setupRouter(t, &fakeClient{})

	req := httptest.NewRequest(http.MethodGet, "/stream/session-1?message=hello&productId=lapsang", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestStreamUpstreamFailure(t *testing.T) {
	r, _ := setupRouter(t, &fakeClient{err: llmerr.NewUpstream("rate limited", nil)})

	req := httptest.NewRequest(http.MethodGet, "/stream/session-1?message=hello", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	body := resp.Body.String()
	if !strings.Contains(body, "event: error") {
		t.Fatalf("expected an error event, got:\n%s", body)
	}
	if strings.Contains(body, "event: end") {
		t.Fatalf("did not expect an end event after failure:\n%s", body)
	}
}
