package service

import (
	"context"
	"time"

	"github.com/hugo-lorenzo-mato/docfix/internal/core"
	"github.com/hugo-lorenzo-mato/docfix/internal/record"
)

// instrumentedStore times every statement into the metrics collector.
type instrumentedStore struct {
	core.Store
	metrics *MetricsCollector
}

func (s instrumentedStore) Query(ctx context.Context, statement string, params map[string]any) (*record.ResultSet, error) {
	start := time.Now()
	rs, err := s.Store.Query(ctx, statement, params)
	s.metrics.RecordStatement(statement, time.Since(start), err)
	return rs, err
}

func (s instrumentedStore) Execute(ctx context.Context, statement string, params map[string]any) (int64, error) {
	start := time.Now()
	n, err := s.Store.Execute(ctx, statement, params)
	s.metrics.RecordStatement(statement, time.Since(start), err)
	return n, err
}
