package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/lindenmoor/teahouse/backend/internal/llm"
	chatmodel "github.com/lindenmoor/teahouse/backend/internal/model/chat"
	"github.com/lindenmoor/teahouse/backend/internal/service/advisor"
	"github.com/lindenmoor/teahouse/backend/internal/service/memory"
	"github.com/lindenmoor/teahouse/backend/pkg/llmerr"
)

type fakeClient struct {
	reply string
	err   error
}

func (f *fakeClient) Complete(ctx context.Context, messages []chatmodel.Message, opts llm.Options) (*llm.Completion, error) {
	return f.CompleteStream(ctx, messages, opts, nil)
}

func (f *fakeClient) CompleteStream(ctx context.Context, messages []chatmodel.Message, opts llm.Options, onChunk func(string)) (*llm.Completion, error) {
	if f.err != nil {
		return nil, f.err
	}
	if onChunk != nil {
		onChunk(f.reply)
	}
	return &llm.Completion{Content: f.reply}, nil
}

func setupRouter(client *fakeClient) (*chi.Mux, *memory.Store) {
	store := memory.NewStore()
	advisorSvc := advisor.NewService(store, client, 0)
	handler := New(advisorSvc, store)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, store
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestTurnSuccess(t *testing.T) {
	r, store := setupRouter(&fakeClient{reply: "Try a gentle sencha."})

	resp := postJSON(t, r, "/chat", map[string]string{
		"sessionId": "session-1",
		"message":   "Something light for the afternoon?",
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success {
		t.Fatalf("expected success=true")
	}
	if body.Content != "Try a gentle sencha." {
		t.Fatalf("unexpected content: %q", body.Content)
	}

	history := store.History("session-1")
	if len(history) != 2 {
		t.Fatalf("expected 2 persisted messages, got %d", len(history))
	}
}

func TestTurnMissingFields(t *testing.T) {
	r, _ := setupRouter(&fakeClient{reply: "hi"})

	resp := postJSON(t, r, "/chat", map[string]string{"sessionId": "session-1"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing message, got %d", resp.Code)
	}

	resp = postJSON(t, r, "/chat", map[string]string{"message": "hello"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing sessionId, got %d", resp.Code)
	}
}

func TestTurnUpstreamFailure(t *testing.T) {
	r, store := setupRouter(&fakeClient{err: llmerr.NewUpstream("rate limited", nil)})

	resp := postJSON(t, r, "/chat", map[string]string{
		"sessionId": "session-2",
		"message":   "hello",
	})

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}

	// The user message survives the failed call.
	history := store.History("session-2")
	if len(history) != 1 || history[0].Role != chatmodel.RoleUser {
		t.Fatalf("expected only the user message persisted, got %+v", history)
	}
}

func TestTurnConfigurationFailure(t *testing.T) {
	r, _ := setupRouter(&fakeClient{err: llmerr.NewConfiguration("GROQ_API_KEY is not set")})

	resp := postJSON(t, r, "/chat", map[string]string{
		"sessionId": "session-3",
		"message":   "hello",
	})

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestCreateSession(t *testing.T) {
	r, _ := setupRouter(&fakeClient{reply: "hi"})

	resp := postJSON(t, r, "/chat/session", map[string]string{})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["sessionId"] == "" {
		t.Fatalf("expected a non-empty sessionId")
	}
}

func TestHistoryAndClear(t *testing.T) {
	r, store := setupRouter(&fakeClient{reply: "A fine choice."})
	store.Append("session-4", chatmodel.User("hello"))
	store.Append("session-4", chatmodel.Assistant("A fine choice."))

	req := httptest.NewRequest(http.MethodGet, "/chat/session-4/history", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		SessionID string              `json:"sessionId"`
		Messages  []chatmodel.Message `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.SessionID != "session-4" || len(body.Messages) != 2 {
		t.Fatalf("unexpected history payload: %+v", body)
	}

	req = httptest.NewRequest(http.MethodDelete, "/chat/session-4", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := store.History("session-4"); len(got) != 0 {
		t.Fatalf("expected cleared history, got %d messages", len(got))
	}
}

func TestStats(t *testing.T) {
	r, store := setupRouter(&fakeClient{reply: "hi"})
	store.Append("a", chatmodel.User("one"))
	store.Append("b", chatmodel.User("two"))
	store.Append("b", chatmodel.Assistant("three"))

	req := httptest.NewRequest(http.MethodGet, "/chat/stats", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var stats memory.Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats.TotalConversations != 2 || stats.TotalMessages != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
