// Package search orchestrates the dual-path query contract: delegate
// to the remote full-text index when it answers, fall back to the
// local scan engine on any failure. The two paths must agree on
// filtering and never disagree on which documents can match.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	domart "github.com/rehci/encyclopedia/internal/domain/article"
	"github.com/rehci/encyclopedia/internal/domain/search/filter"
	"github.com/rehci/encyclopedia/internal/engine"
)

// Service answers search queries and owns the remote index lifecycle.
type Service struct {
	source  Source
	index   Index // nil disables the remote path
	logger  *zap.Logger
	timeout time.Duration

	syncBatchSize int
	state         stateHolder

	searches   *prometheus.CounterVec
	stateGauge *prometheus.GaugeVec
}

// New creates a search service. A nil index means every query is
// answered by the local engine.
func New(source Source, index Index, logger *zap.Logger) *Service {
	return &Service{
		source:        source,
		index:         index,
		logger:        logger,
		timeout:       2 * time.Second,
		syncBatchSize: 100,
	}
}

// WithRemoteTimeout bounds each remote index call.
func (s *Service) WithRemoteTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithSyncBatchSize sets the number of articles pushed per sync batch.
func (s *Service) WithSyncBatchSize(n int) *Service {
	if n > 0 {
		s.syncBatchSize = n
	}
	return s
}

// WithMetrics attaches the search path counter and index state gauge.
func (s *Service) WithMetrics(searches *prometheus.CounterVec, state *prometheus.GaugeVec) *Service {
	s.searches = searches
	s.stateGauge = state
	s.observeState(s.state.get())
	return s
}

// State returns the current remote index lifecycle state.
func (s *Service) State() State { return s.state.get() }

// Search answers a free-text query with optional filters. A blank
// query yields an empty result without touching any backend. Remote
// failures are absorbed: the caller sees local results, never an
// index error.
func (s *Service) Search(ctx context.Context, query string, fs filter.Set) ([]domart.Article, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	col, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}

	if s.index != nil {
		if results, ok := s.searchRemote(ctx, col, query, fs); ok {
			s.observe("remote")
			return results, nil
		}
		s.observe("fallback")
		return engine.Search(col, query, fs), nil
	}

	s.observe("local")
	return engine.Search(col, query, fs), nil
}

// searchRemote runs one bounded attempt against the external index and
// hydrates the returned slugs. Reports ok=false on any failure; there
// is no retry, the fallback is immediate.
func (s *Service) searchRemote(
	ctx context.Context, col *domart.Collection, query string, fs filter.Set,
) ([]domart.Article, bool) {
	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	slugs, err := s.index.Query(rctx, query, fs)
	if err != nil {
		s.setState(StateDegraded)
		s.logger.Warn("remote index query failed, falling back to local scan",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil, false
	}
	s.setState(StateReady)

	results := make([]domart.Article, 0, len(slugs))
	for _, slug := range slugs {
		a, ok := col.Get(slug)
		if !ok {
			// Stale index entry: dropped, not errored.
			s.logger.Debug("dropping stale index slug", zap.String("slug", slug))
			continue
		}
		results = append(results, a)
	}
	return results, true
}

// Provision ensures the remote index exists with the expected schema.
// Best-effort infrastructure setup: callers log failures and carry on,
// the request path never depends on it.
func (s *Service) Provision(ctx context.Context) error {
	if s.index == nil {
		return nil
	}

	s.setState(StateProvisioning)
	if err := s.index.Provision(ctx); err != nil {
		s.setState(StateDegraded)
		return fmt.Errorf("provision index: %w", err)
	}
	s.setState(StateReady)
	return nil
}

// Sync loads the content source and pushes every article to the remote
// index as a full replace: stale entries are pruned first, then the
// collection is written in batches. progress, when non-nil, receives
// the size of each completed batch.
func (s *Service) Sync(ctx context.Context, progress func(int)) (int, error) {
	if s.index == nil {
		return 0, nil
	}

	col, err := s.source.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load articles: %w", err)
	}

	items := col.Items()
	slugs := make([]string, len(items))
	for i, a := range items {
		slugs[i] = a.Slug()
	}

	if err := s.index.Prune(ctx, slugs); err != nil {
		s.setState(StateDegraded)
		return 0, fmt.Errorf("prune index: %w", err)
	}

	for start := 0; start < len(items); start += s.syncBatchSize {
		end := min(start+s.syncBatchSize, len(items))
		if err := s.index.Sync(ctx, items[start:end]); err != nil {
			s.setState(StateDegraded)
			return start, fmt.Errorf("sync batch at %d: %w", start, err)
		}
		if progress != nil {
			progress(end - start)
		}
	}

	s.setState(StateReady)
	return len(items), nil
}

func (s *Service) observe(path string) {
	if s.searches != nil {
		s.searches.WithLabelValues(path).Inc()
	}
}

func (s *Service) setState(st State) {
	s.state.set(st)
	s.observeState(st)
}

func (s *Service) observeState(current State) {
	if s.stateGauge == nil {
		return
	}
	for _, st := range []State{StateUnconfigured, StateProvisioning, StateReady, StateDegraded} {
		v := 0.0
		if st == current {
			v = 1.0
		}
		s.stateGauge.WithLabelValues(st.String()).Set(v)
	}
}
