package index

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rehci/encyclopedia/internal/db"
	"github.com/rehci/encyclopedia/internal/domain"
	domart "github.com/rehci/encyclopedia/internal/domain/article"
	"github.com/rehci/encyclopedia/internal/domain/search/filter"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn   func(ctx context.Context, name string) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	searchTextFn  func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	delFn         func(ctx context.Context, key string) error
	scanFn        func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func newTestRepo(ms *mockStore) *Repo {
	return New(ms, "encyclopedia", "encyclopedia:article:", 50)
}

func mustArticle(t *testing.T, slug, title string, opts domart.Metadata) domart.Article {
	t.Helper()
	a, err := domart.New(slug, title, opts)
	if err != nil {
		t.Fatalf("article.New: %v", err)
	}
	return a
}

// --- Provision ---

func TestProvision_CreatesWhenAbsent(t *testing.T) {
	var created *db.IndexDefinition
	ms := &mockStore{
		indexExistsFn: func(_ context.Context, _ string) (bool, error) { return false, nil },
		createIndexFn: func(_ context.Context, def *db.IndexDefinition) error {
			created = def
			return nil
		},
	}

	if err := newTestRepo(ms).Provision(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected CreateIndex to be called")
	}
	if created.Name != "encyclopedia" {
		t.Errorf("index name = %q", created.Name)
	}

	fields := make(map[string]db.IndexField, len(created.Fields))
	for _, f := range created.Fields {
		fields[f.Name] = f
	}
	for _, name := range []string{"title", "description", "body"} {
		if fields[name].Type != db.IndexFieldText {
			t.Errorf("field %s should be TEXT", name)
		}
	}
	for _, name := range []string{"category", "tags"} {
		if fields[name].Type != db.IndexFieldTag {
			t.Errorf("field %s should be TAG", name)
		}
	}
	if !fields["title"].Sortable || !fields["date"].Sortable {
		t.Error("title and date should be sortable")
	}
}

func TestProvision_SkipsWhenPresent(t *testing.T) {
	ms := &mockStore{
		indexExistsFn: func(_ context.Context, _ string) (bool, error) { return true, nil },
		createIndexFn: func(_ context.Context, _ *db.IndexDefinition) error {
			t.Fatal("CreateIndex must not be called")
			return nil
		},
	}

	if err := newTestRepo(ms).Provision(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProvision_ToleratesCreateRace(t *testing.T) {
	ms := &mockStore{
		createIndexFn: func(_ context.Context, _ *db.IndexDefinition) error {
			return db.ErrIndexExists
		},
	}

	if err := newTestRepo(ms).Provision(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProvision_PropagatesConnectionError(t *testing.T) {
	ms := &mockStore{
		indexExistsFn: func(_ context.Context, _ string) (bool, error) {
			return false, errors.New("connection refused")
		},
	}

	if err := newTestRepo(ms).Provision(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

// --- Sync / Prune ---

func TestSync_ProjectsAndTruncates(t *testing.T) {
	longBody := strings.Repeat("x", MaxSyncBody+1000)
	a := mustArticle(t, "ai", "Artificial Intelligence", domart.Metadata{
		Description: "Machines that learn",
		Category:    "Technology",
		Tags:        []string{"AI", "machine-learning"},
		Body:        longBody,
	})

	var items []db.HashSetItem
	ms := &mockStore{
		hsetMultiFn: func(_ context.Context, in []db.HashSetItem) error {
			items = in
			return nil
		},
	}

	if err := newTestRepo(ms).Sync(context.Background(), []domart.Article{a}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Key != "encyclopedia:article:ai" {
		t.Errorf("key = %q", items[0].Key)
	}
	f := items[0].Fields
	if len(f["body"]) != MaxSyncBody {
		t.Errorf("body length = %d, want %d", len(f["body"]), MaxSyncBody)
	}
	if f["tags"] != "AI,machine-learning" {
		t.Errorf("tags = %q", f["tags"])
	}
	if f["category"] != "Technology" {
		t.Errorf("category = %q", f["category"])
	}
}

func TestSync_TruncatesBodyOnRuneBoundary(t *testing.T) {
	// A multibyte rune straddling the byte cap must not be split.
	a := mustArticle(t, "cafe", "Café Culture", domart.Metadata{
		Category: "Food",
		Body:     strings.Repeat("a", MaxSyncBody-1) + "日本",
	})

	var items []db.HashSetItem
	ms := &mockStore{
		hsetMultiFn: func(_ context.Context, in []db.HashSetItem) error {
			items = in
			return nil
		},
	}

	if err := newTestRepo(ms).Sync(context.Background(), []domart.Article{a}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := items[0].Fields["body"]
	if !utf8.ValidString(body) {
		t.Fatalf("body is not valid UTF-8: trailing bytes %q", body[len(body)-4:])
	}
	if len(body) != MaxSyncBody-1 {
		t.Errorf("body length = %d, want %d", len(body), MaxSyncBody-1)
	}
}

func TestPrune_RemovesStaleOnly(t *testing.T) {
	var deleted []string
	ms := &mockStore{
		scanFn: func(_ context.Context, pattern string) ([]string, error) {
			if pattern != "encyclopedia:article:*" {
				t.Errorf("pattern = %q", pattern)
			}
			return []string{
				"encyclopedia:article:ai",
				"encyclopedia:article:removed",
			}, nil
		},
		delFn: func(_ context.Context, key string) error {
			deleted = append(deleted, key)
			return nil
		},
	}

	if err := newTestRepo(ms).Prune(context.Background(), []string{"ai"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != "encyclopedia:article:removed" {
		t.Errorf("deleted = %v", deleted)
	}
}

// --- Query ---

func TestQuery_ReturnsSlugsInEngineOrder(t *testing.T) {
	var got *db.TextQuery
	ms := &mockStore{
		searchTextFn: func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
			got = q
			return &db.SearchResult{
				Total: 2,
				Entries: []db.SearchEntry{
					{Key: "encyclopedia:article:ai", Score: 3.5},
					{Key: "encyclopedia:article:ml", Score: 1.0},
				},
			}, nil
		},
	}

	fs, _ := filter.New("Technology", []string{"AI"})
	slugs, err := newTestRepo(ms).Query(context.Background(), "intelligence", fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slugs) != 2 || slugs[0] != "ai" || slugs[1] != "ml" {
		t.Errorf("slugs = %v", slugs)
	}
	if got.Category != "Technology" || len(got.Tags) != 1 {
		t.Errorf("filter not forwarded: %+v", got)
	}
	if got.Limit != 50 {
		t.Errorf("limit = %d, want 50", got.Limit)
	}
}

func TestQuery_PropagatesEngineError(t *testing.T) {
	ms := &mockStore{
		searchTextFn: func(_ context.Context, _ *db.TextQuery) (*db.SearchResult, error) {
			return nil, errors.New("connection reset")
		},
	}

	_, err := newTestRepo(ms).Query(context.Background(), "x", filter.Set{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}
