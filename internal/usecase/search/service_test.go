package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	domart "github.com/rehci/encyclopedia/internal/domain/article"
	"github.com/rehci/encyclopedia/internal/domain/search/filter"
	"github.com/rehci/encyclopedia/internal/engine"
)

// --- Mocks ---

type mockSource struct {
	col *domart.Collection
	err error
}

func (m *mockSource) Load(_ context.Context) (*domart.Collection, error) {
	return m.col, m.err
}

type mockIndex struct {
	provisionErr error
	syncErr      error
	pruneErr     error
	querySlugs   []string
	queryErr     error

	provisionCalled bool
	queryCalled     bool
	pruneKeep       []string
	syncBatches     [][]domart.Article
}

func (m *mockIndex) Provision(_ context.Context) error {
	m.provisionCalled = true
	return m.provisionErr
}

func (m *mockIndex) Sync(_ context.Context, arts []domart.Article) error {
	if m.syncErr != nil {
		return m.syncErr
	}
	batch := make([]domart.Article, len(arts))
	copy(batch, arts)
	m.syncBatches = append(m.syncBatches, batch)
	return nil
}

func (m *mockIndex) Prune(_ context.Context, keep []string) error {
	m.pruneKeep = keep
	return m.pruneErr
}

func (m *mockIndex) Query(_ context.Context, _ string, _ filter.Set) ([]string, error) {
	m.queryCalled = true
	return m.querySlugs, m.queryErr
}

func mustArticle(t *testing.T, slug, title string, opts domart.Metadata) domart.Article {
	t.Helper()
	a, err := domart.New(slug, title, opts)
	if err != nil {
		t.Fatalf("article.New: %v", err)
	}
	return a
}

func testCollection(t *testing.T) *domart.Collection {
	t.Helper()
	col, _ := domart.NewCollection([]domart.Article{
		mustArticle(t, "ai", "Artificial Intelligence", domart.Metadata{
			Category: "Technology",
			Tags:     []string{"AI"},
			Body:     "Machines that reason about the world.",
		}),
		mustArticle(t, "bread", "Sourdough Bread", domart.Metadata{
			Category: "Food",
			Tags:     []string{"baking"},
			Body:     "Flour, water, salt and patience.",
		}),
	})
	return col
}

func slugsOf(arts []domart.Article) []string {
	out := make([]string, len(arts))
	for i, a := range arts {
		out[i] = a.Slug()
	}
	return out
}

func equalSlugs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- Tests ---

func TestSearch_BlankQuerySkipsBackends(t *testing.T) {
	src := &mockSource{col: testCollection(t)}
	idx := &mockIndex{}
	svc := New(src, idx, zap.NewNop())

	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := svc.Search(context.Background(), q, filter.Set{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("query %q: expected no results, got %d", q, len(results))
		}
	}
	if idx.queryCalled {
		t.Error("remote index must not be invoked for blank queries")
	}
}

func TestSearch_RemotePathHydratesInEngineOrder(t *testing.T) {
	src := &mockSource{col: testCollection(t)}
	idx := &mockIndex{querySlugs: []string{"bread", "ai"}}
	svc := New(src, idx, zap.NewNop())

	results, err := svc.Search(context.Background(), "a", filter.Set{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalSlugs(slugsOf(results), []string{"bread", "ai"}) {
		t.Errorf("results = %v, want remote engine order", slugsOf(results))
	}
	if svc.State() != StateReady {
		t.Errorf("state = %v, want ready", svc.State())
	}
}

func TestSearch_StaleSlugDropped(t *testing.T) {
	src := &mockSource{col: testCollection(t)}
	idx := &mockIndex{querySlugs: []string{"ai", "deleted-long-ago", "bread"}}
	svc := New(src, idx, zap.NewNop())

	results, err := svc.Search(context.Background(), "a", filter.Set{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalSlugs(slugsOf(results), []string{"ai", "bread"}) {
		t.Errorf("results = %v, want stale slug silently dropped", slugsOf(results))
	}
}

func TestSearch_FallbackEquivalence(t *testing.T) {
	col := testCollection(t)
	src := &mockSource{col: col}
	idx := &mockIndex{queryErr: errors.New("connection refused")}
	svc := New(src, idx, zap.NewNop())

	cases := []struct {
		query string
		fs    filter.Set
	}{
		{"intelligence", filter.Set{}},
		{"a", filter.Set{}},
		{"bread", mustFilter(t, "Technology", nil)},
		{"flour", mustFilter(t, "", []string{"baking"})},
	}
	for _, tc := range cases {
		got, err := svc.Search(context.Background(), tc.query, tc.fs)
		if err != nil {
			t.Fatalf("query %q: unexpected error: %v", tc.query, err)
		}
		want := engine.Search(col, tc.query, tc.fs)
		if !equalSlugs(slugsOf(got), slugsOf(want)) {
			t.Errorf("query %q: fallback = %v, local engine = %v",
				tc.query, slugsOf(got), slugsOf(want))
		}
	}
	if svc.State() != StateDegraded {
		t.Errorf("state = %v, want degraded after remote failure", svc.State())
	}
}

// blockingIndex parks Query until the caller's context expires.
type blockingIndex struct {
	mockIndex
	queryCalls int
}

func (m *blockingIndex) Query(ctx context.Context, _ string, _ filter.Set) ([]string, error) {
	m.queryCalls++
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestSearch_RemoteTimeoutFallsBackToLocal(t *testing.T) {
	col := testCollection(t)
	src := &mockSource{col: col}
	idx := &blockingIndex{}
	svc := New(src, idx, zap.NewNop()).WithRemoteTimeout(10 * time.Millisecond)

	got, err := svc.Search(context.Background(), "intelligence", filter.Set{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := engine.Search(col, "intelligence", filter.Set{})
	if !equalSlugs(slugsOf(got), slugsOf(want)) {
		t.Errorf("results = %v, local engine = %v", slugsOf(got), slugsOf(want))
	}
	if svc.State() != StateDegraded {
		t.Errorf("state = %v, want degraded after remote timeout", svc.State())
	}
	if idx.queryCalls != 1 {
		t.Errorf("remote queried %d times, want exactly 1", idx.queryCalls)
	}
}

func TestSearch_DegradedRecoversOnNextSuccess(t *testing.T) {
	src := &mockSource{col: testCollection(t)}
	idx := &mockIndex{queryErr: errors.New("timeout")}
	svc := New(src, idx, zap.NewNop())

	if _, err := svc.Search(context.Background(), "a", filter.Set{}); err != nil {
		t.Fatal(err)
	}
	if svc.State() != StateDegraded {
		t.Fatalf("state = %v, want degraded", svc.State())
	}

	idx.queryErr = nil
	idx.querySlugs = []string{"ai"}
	if _, err := svc.Search(context.Background(), "a", filter.Set{}); err != nil {
		t.Fatal(err)
	}
	if svc.State() != StateReady {
		t.Errorf("state = %v, want ready again", svc.State())
	}
}

func TestSearch_LocalOnlyWithoutIndex(t *testing.T) {
	src := &mockSource{col: testCollection(t)}
	svc := New(src, nil, zap.NewNop())

	results, err := svc.Search(context.Background(), "intelligence", filter.Set{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalSlugs(slugsOf(results), []string{"ai"}) {
		t.Errorf("results = %v", slugsOf(results))
	}
}

func TestSearch_SourceErrorPropagates(t *testing.T) {
	src := &mockSource{err: errors.New("content dir gone")}
	svc := New(src, &mockIndex{}, zap.NewNop())

	if _, err := svc.Search(context.Background(), "x", filter.Set{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestSearch_Idempotent(t *testing.T) {
	src := &mockSource{col: testCollection(t)}
	svc := New(src, nil, zap.NewNop())

	first, err := svc.Search(context.Background(), "a", filter.Set{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Search(context.Background(), "a", filter.Set{})
	if err != nil {
		t.Fatal(err)
	}
	if !equalSlugs(slugsOf(first), slugsOf(second)) {
		t.Errorf("repeated search differs: %v vs %v", slugsOf(first), slugsOf(second))
	}
}

func TestProvision_StateTransitions(t *testing.T) {
	src := &mockSource{col: testCollection(t)}
	idx := &mockIndex{}
	svc := New(src, idx, zap.NewNop())

	if svc.State() != StateUnconfigured {
		t.Fatalf("initial state = %v", svc.State())
	}
	if err := svc.Provision(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !idx.provisionCalled {
		t.Error("expected Provision to be delegated")
	}
	if svc.State() != StateReady {
		t.Errorf("state = %v, want ready", svc.State())
	}
}

func TestProvision_FailureDegrades(t *testing.T) {
	src := &mockSource{col: testCollection(t)}
	idx := &mockIndex{provisionErr: errors.New("no route to host")}
	svc := New(src, idx, zap.NewNop())

	if err := svc.Provision(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if svc.State() != StateDegraded {
		t.Errorf("state = %v, want degraded", svc.State())
	}
}

func TestSync_PrunesThenBatches(t *testing.T) {
	src := &mockSource{col: testCollection(t)}
	idx := &mockIndex{}
	svc := New(src, idx, zap.NewNop()).WithSyncBatchSize(1)

	var progressed int
	n, err := svc.Sync(context.Background(), func(n int) { progressed += n })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || progressed != 2 {
		t.Errorf("synced = %d, progressed = %d, want 2 and 2", n, progressed)
	}
	if !equalSlugs(idx.pruneKeep, []string{"ai", "bread"}) {
		t.Errorf("prune keep = %v", idx.pruneKeep)
	}
	if len(idx.syncBatches) != 2 {
		t.Errorf("expected 2 batches of 1, got %d", len(idx.syncBatches))
	}
	if svc.State() != StateReady {
		t.Errorf("state = %v, want ready", svc.State())
	}
}

func TestSync_NoIndexIsNoop(t *testing.T) {
	src := &mockSource{col: testCollection(t)}
	svc := New(src, nil, zap.NewNop())

	n, err := svc.Sync(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("synced = %d, want 0", n)
	}
}

func mustFilter(t *testing.T, category string, tags []string) filter.Set {
	t.Helper()
	fs, err := filter.New(category, tags)
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}
	return fs
}
