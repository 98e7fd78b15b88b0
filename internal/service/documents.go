// Package service runs the lookup, checkpoint and fix pipeline against a
// store on behalf of the HTTP server and the CLI.
package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hugo-lorenzo-mato/docfix/internal/checkpoint"
	"github.com/hugo-lorenzo-mato/docfix/internal/core"
	"github.com/hugo-lorenzo-mato/docfix/internal/fix"
	"github.com/hugo-lorenzo-mato/docfix/internal/present"
)

// Options configures a DocumentService.
type Options struct {
	Fix     fix.Config
	Metrics *MetricsCollector
	Logger  *slog.Logger
}

// DocumentService looks documents up, explains why they can or cannot be
// fixed and applies the fix.
type DocumentService struct {
	store     core.Store
	engine    *checkpoint.Engine
	presenter *present.Presenter
	fixer     *fix.Fixer
	metrics   *MetricsCollector
	logger    *slog.Logger
}

// UpdatableResult is the outcome of the two-step check.
type UpdatableResult struct {
	Document  string `json:"document" yaml:"document"`
	Updatable bool   `json:"updatable" yaml:"updatable"`
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
}

// Overview is everything a page render needs.
type Overview struct {
	Record     *present.DisplayRecord `json:"record,omitempty" yaml:"record,omitempty"`
	Candidates []Candidate            `json:"candidates" yaml:"candidates"`
}

// NewDocumentService creates a service over store.
func NewDocumentService(store core.Store, opts Options) *DocumentService {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetricsCollector()
	}
	if opts.Fix == (fix.Config{}) {
		opts.Fix = fix.DefaultConfig()
	}

	s := &DocumentService{
		store:   instrumentedStore{Store: store, metrics: opts.Metrics},
		engine:  checkpoint.New(opts.Logger),
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
	s.presenter = present.New(s.engine, opts.Logger)
	s.fixer = fix.New(s.store, s, opts.Fix, opts.Logger)
	return s
}

// Metrics returns the collector the service records into.
func (s *DocumentService) Metrics() *MetricsCollector {
	return s.metrics
}

// Lookup runs the check statement for document and builds its card. A failed
// query is logged and reported as no records found.
func (s *DocumentService) Lookup(ctx context.Context, document string) *present.DisplayRecord {
	rs, err := s.store.Query(ctx, core.StatementCheck, map[string]any{core.ParamDocument: document})
	if err != nil {
		s.logger.Warn("document lookup failed",
			slog.String("document", document),
			slog.String("error", err.Error()),
		)
		rs = nil
	}
	rec := s.presenter.Build(rs, document)
	s.metrics.RecordLookup(rec.Found, err)
	return rec
}

// Search validates document and looks it up.
func (s *DocumentService) Search(ctx context.Context, document string) (*present.DisplayRecord, error) {
	document, err := normalizeDocument(document)
	if err != nil {
		return nil, err
	}
	return s.Lookup(ctx, document), nil
}

// Updatable runs only the cardinality and updatable checkpoints.
func (s *DocumentService) Updatable(ctx context.Context, document string) (UpdatableResult, error) {
	document, err := normalizeDocument(document)
	if err != nil {
		return UpdatableResult{}, err
	}
	res := UpdatableResult{Document: document}

	rs, err := s.store.Query(ctx, core.StatementCheck, map[string]any{core.ParamDocument: document})
	if err != nil {
		s.logger.Warn("document lookup failed",
			slog.String("document", document),
			slog.String("error", err.Error()),
		)
		return res, nil
	}
	res.ID, res.Updatable = s.engine.EvaluateUpdatable(rs)
	return res, nil
}

// Plan looks document up and reports the update it qualifies for without
// running it.
func (s *DocumentService) Plan(ctx context.Context, document string) (*present.DisplayRecord, fix.Plan, bool, error) {
	rec, err := s.Search(ctx, document)
	if err != nil {
		return nil, fix.Plan{}, false, err
	}
	plan, ok := s.fixer.Decide(rec)
	return rec, plan, ok, nil
}

// Fix looks document up again, applies the update it qualifies for and
// returns the refreshed card.
func (s *DocumentService) Fix(ctx context.Context, document string) (fix.Outcome, error) {
	rec, err := s.Search(ctx, document)
	if err != nil {
		return fix.Outcome{}, err
	}
	out := s.fixer.DecideAndApply(ctx, rec, rec.Document)
	s.metrics.RecordFix(out)
	return out, nil
}

// Candidates runs the discovery statement and returns the documents it
// reported, fuzzily filtered by query when it is not empty.
func (s *DocumentService) Candidates(ctx context.Context, query string) ([]Candidate, error) {
	rs, err := s.store.Query(ctx, core.StatementAuto, nil)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordCandidates()
	return FilterCandidates(ExtractCandidates(rs), strings.TrimSpace(query)), nil
}

// Overview looks document up, when given, and loads the candidate list
// concurrently. A failed candidate query only empties the list.
func (s *DocumentService) Overview(ctx context.Context, document string) (*Overview, error) {
	document = strings.TrimSpace(document)
	var (
		mu sync.Mutex
		ov = &Overview{}
	)

	g, gctx := errgroup.WithContext(ctx)
	if document != "" {
		g.Go(func() error {
			rec := s.Lookup(gctx, document)
			mu.Lock()
			ov.Record = rec
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		candidates, err := s.Candidates(gctx, "")
		if err != nil {
			s.logger.Warn("candidate discovery failed", slog.String("error", err.Error()))
			return nil
		}
		mu.Lock()
		ov.Candidates = candidates
		mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ov.Candidates == nil {
		ov.Candidates = []Candidate{}
	}
	return ov, nil
}

// Health checks the store is reachable.
func (s *DocumentService) Health(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func normalizeDocument(document string) (string, error) {
	document = strings.TrimSpace(document)
	if document == "" {
		return "", core.ErrValidation(core.CodeEmptyDocument, "document is required")
	}
	return document, nil
}
