// Package chi is the HTTP transport. Handlers translate query strings
// into domain requests and domain errors into status codes; a search
// backend failure is never surfaced to the client as an error page,
// only as an empty result list.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rehci/encyclopedia/internal/domain"
	domart "github.com/rehci/encyclopedia/internal/domain/article"
	"github.com/rehci/encyclopedia/internal/domain/search/filter"
	searchuc "github.com/rehci/encyclopedia/internal/usecase/search"
)

// DefaultMaxResults caps the result list when the client asks for more
// or does not say.
const DefaultMaxResults = 50

// Searcher answers search queries.
type Searcher interface {
	Search(ctx context.Context, query string, fs filter.Set) ([]domart.Article, error)
	State() searchuc.State
}

// Catalog serves article lookups and category listings.
type Catalog interface {
	Article(ctx context.Context, slug string) (domart.Article, error)
	Categories(ctx context.Context) ([]string, error)
	ByCategory(ctx context.Context, category string) ([]domart.Article, error)
}

// Server is the HTTP API server.
type Server struct {
	search     Searcher
	catalog    Catalog
	logger     *zap.Logger
	maxResults int
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, catalog Catalog, logger *zap.Logger) *Server {
	return &Server{
		search:     search,
		catalog:    catalog,
		logger:     logger,
		maxResults: DefaultMaxResults,
	}
}

// WithMaxResults overrides the result cap.
func (s *Server) WithMaxResults(n int) *Server {
	if n > 0 {
		s.maxResults = n
	}
	return s
}

// Routes mounts the API routes on r.
func (s *Server) Routes(r chirouter.Router) {
	r.Get("/api/search", s.handleSearch)
	r.Get("/api/articles/{slug}", s.handleArticle)
	r.Get("/api/categories", s.handleCategories)
	r.Get("/api/categories/{category}", s.handleCategory)
	r.Get("/healthz", s.handleHealth)
}

// searchResult is one article in a search response.
type searchResult struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Date        string   `json:"date,omitempty"`
	Image       string   `json:"image,omitempty"`
}

// articleResponse is the full single-article payload.
type articleResponse struct {
	searchResult
	Author  string `json:"author,omitempty"`
	Content string `json:"content"`
}

// handleSearch serves GET /api/search?q=...&category=...&tag=...&tag=...&limit=...
// Every failure past parameter validation degrades to an empty list;
// broken search must read as "no results", not as an outage.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	fs, err := filter.New(r.URL.Query().Get("category"), r.URL.Query()["tag"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := s.maxResults
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n < limit {
			limit = n
		}
	}

	articles, err := s.search.Search(r.Context(), q, fs)
	if err != nil {
		s.logger.Error("search failed, answering empty", zap.String("query", q), zap.Error(err))
		writeJSON(w, http.StatusOK, []searchResult{})
		return
	}
	if len(articles) > limit {
		articles = articles[:limit]
	}

	out := make([]searchResult, len(articles))
	for i, a := range articles {
		out[i] = toSearchResult(a)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleArticle serves GET /api/articles/{slug}.
func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	slug := chirouter.URLParam(r, "slug")

	a, err := s.catalog.Article(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			writeError(w, http.StatusNotFound, "article not found")
			return
		}
		s.handleInternal(w, err)
		return
	}

	writeJSON(w, http.StatusOK, articleResponse{
		searchResult: toSearchResult(a),
		Author:       a.Author(),
		Content:      a.Body(),
	})
}

// handleCategories serves GET /api/categories.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.catalog.Categories(r.Context())
	if err != nil {
		s.handleInternal(w, err)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, cats)
}

// handleCategory serves GET /api/categories/{category}.
func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	category := chirouter.URLParam(r, "category")

	articles, err := s.catalog.ByCategory(r.Context(), category)
	if err != nil {
		s.handleInternal(w, err)
		return
	}

	out := make([]searchResult, len(articles))
	for i, a := range articles {
		out[i] = toSearchResult(a)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleHealth serves GET /healthz with the index lifecycle state.
// The service is healthy whenever the content source loads; a degraded
// remote index is reported but does not fail the check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"index_state": s.search.State().String(),
	})
}

func (s *Server) handleInternal(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrSourceUnavailable) {
		s.logger.Error("content source unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "content source unavailable")
		return
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func toSearchResult(a domart.Article) searchResult {
	return searchResult{
		Slug:        a.Slug(),
		Title:       a.Title(),
		Description: a.Description(),
		Category:    a.Category(),
		Tags:        a.Tags(),
		Date:        a.Date(),
		Image:       a.Image(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
