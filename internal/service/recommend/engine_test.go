package recommend_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/lindenmoor/teahouse/backend/internal/llm"
	"github.com/lindenmoor/teahouse/backend/internal/model/chat"
	"github.com/lindenmoor/teahouse/backend/internal/service/recommend"
	"github.com/lindenmoor/teahouse/backend/pkg/llmerr"
)

// fakeClient returns a canned completion or error for the primary path.
type fakeClient struct {
	content  string
	err      error
	lastOpts llm.Options
	calls    int
}

func (f *fakeClient) Complete(ctx context.Context, messages []chat.Message, opts llm.Options) (*llm.Completion, error) {
	f.calls++
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Completion{Content: f.content}, nil
}

func TestRecommendPrimarySuccess(t *testing.T) {
	client := &fakeClient{content: `{"productIds": ["sencha", "genmaicha", "dragonwell"], "sommelierComment": "Bright green teas for you."}`}
	engine := recommend.NewEngine(client)

	result := engine.Recommend(context.Background(), "something vegetal", loadCatalog(t))

	if result.UsedFallback {
		t.Fatal("expected primary path to be used")
	}
	want := []string{"sencha", "genmaicha", "dragonwell"}
	if !reflect.DeepEqual(result.ProductIDs, want) {
		t.Fatalf("unexpected ids: %v", result.ProductIDs)
	}
	if result.SommelierComment != "Bright green teas for you." {
		t.Fatalf("unexpected comment: %q", result.SommelierComment)
	}
	if !client.lastOpts.JSONResponse {
		t.Fatal("primary path must request a JSON response")
	}
	if client.lastOpts.Stream {
		t.Fatal("primary path must not stream")
	}
}

func TestRecommendUnknownIDsPassThrough(t *testing.T) {
	// The engine does not validate ids against the catalog; the caller
	// filters unresolvable ones.
	client := &fakeClient{content: `{"productIds": ["no-such-tea"], "sommelierComment": "c"}`}
	engine := recommend.NewEngine(client)

	result := engine.Recommend(context.Background(), "x", loadCatalog(t))
	if result.UsedFallback || len(result.ProductIDs) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRecommendFallsBackOnUnparseableResponse(t *testing.T) {
	client := &fakeClient{content: "I would suggest a nice oolong, perhaps?"}
	engine := recommend.NewEngine(client)
	products := loadCatalog(t)

	result := engine.Recommend(context.Background(), "calming jasmine afternoon", products)

	if !result.UsedFallback {
		t.Fatal("expected fallback on parse failure")
	}
	independent := engine.Fallback("calming jasmine afternoon", products)
	if !reflect.DeepEqual(result.ProductIDs, independent.ProductIDs) {
		t.Fatalf("fallback ids diverge: %v vs %v", result.ProductIDs, independent.ProductIDs)
	}
}

func TestRecommendFallsBackOnUpstreamError(t *testing.T) {
	client := &fakeClient{err: llmerr.NewUpstream("service unavailable", nil)}
	engine := recommend.NewEngine(client)

	result := engine.Recommend(context.Background(), "bold and strong", loadCatalog(t))
	if !result.UsedFallback {
		t.Fatal("expected fallback on upstream error")
	}
	if len(result.ProductIDs) == 0 {
		t.Fatal("fallback should still recommend teas")
	}
}

func TestRecommendFallsBackOnMissingCredential(t *testing.T) {
	client := &fakeClient{err: llmerr.NewConfiguration("GROQ_API_KEY is not set")}
	engine := recommend.NewEngine(client)

	result := engine.Recommend(context.Background(), "", loadCatalog(t))
	if !result.UsedFallback {
		t.Fatal("expected fallback on configuration error")
	}
}

func TestRecommendDefaultCommentWhenMissing(t *testing.T) {
	client := &fakeClient{content: `{"productIds": ["sencha"]}`}
	engine := recommend.NewEngine(client)

	result := engine.Recommend(context.Background(), "x", loadCatalog(t))
	if result.UsedFallback {
		t.Fatal("expected primary path")
	}
	if result.SommelierComment != "Here are some teas you might enjoy." {
		t.Fatalf("expected default comment, got %q", result.SommelierComment)
	}
}
