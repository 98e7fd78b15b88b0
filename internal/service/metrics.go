package service

import (
	"sort"
	"sync"
	"time"

	"github.com/hugo-lorenzo-mato/docfix/internal/fix"
)

// MetricsCollector collects service metrics.
type MetricsCollector struct {
	service    ServiceMetrics
	statements map[string]*StatementMetrics
	mu         sync.RWMutex
}

// ServiceMetrics holds service-level counters.
type ServiceMetrics struct {
	StartTime          time.Time `json:"start_time"`
	Lookups            int       `json:"lookups"`
	LookupsFound       int       `json:"lookups_found"`
	LookupErrors       int       `json:"lookup_errors"`
	FixesAttempted     int       `json:"fixes_attempted"`
	FixesSucceeded     int       `json:"fixes_succeeded"`
	FixesRejected      int       `json:"fixes_rejected"`
	RowsAffected       int64     `json:"rows_affected"`
	CandidateRefreshes int       `json:"candidate_refreshes"`
	LastFixAt          time.Time `json:"last_fix_at,omitempty"`
}

// StatementMetrics holds per-statement metrics.
type StatementMetrics struct {
	Name          string        `json:"name"`
	Calls         int           `json:"calls"`
	Errors        int           `json:"errors"`
	TotalDuration time.Duration `json:"total_duration"`
	AvgDuration   time.Duration `json:"avg_duration"`
	LastError     string        `json:"last_error,omitempty"`
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		service:    ServiceMetrics{StartTime: time.Now()},
		statements: make(map[string]*StatementMetrics),
	}
}

// RecordLookup records one document lookup.
func (m *MetricsCollector) RecordLookup(found bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.service.Lookups++
	if found {
		m.service.LookupsFound++
	}
	if err != nil {
		m.service.LookupErrors++
	}
}

// RecordFix records the outcome of a fix request.
func (m *MetricsCollector) RecordFix(out fix.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !out.Attempted {
		m.service.FixesRejected++
		return
	}
	m.service.FixesAttempted++
	m.service.LastFixAt = time.Now()
	if out.Success {
		m.service.FixesSucceeded++
		m.service.RowsAffected += out.Affected
	}
}

// RecordCandidates records a candidate list refresh.
func (m *MetricsCollector) RecordCandidates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.service.CandidateRefreshes++
}

// RecordStatement records one statement run.
func (m *MetricsCollector) RecordStatement(name string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sm, ok := m.statements[name]
	if !ok {
		sm = &StatementMetrics{Name: name}
		m.statements[name] = sm
	}
	sm.Calls++
	sm.TotalDuration += duration
	sm.AvgDuration = sm.TotalDuration / time.Duration(sm.Calls)
	if err != nil {
		sm.Errors++
		sm.LastError = err.Error()
	}
}

// GetServiceMetrics returns service metrics.
func (m *MetricsCollector) GetServiceMetrics() ServiceMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.service
}

// GetStatementMetrics returns metrics for a specific statement.
func (m *MetricsCollector) GetStatementMetrics(name string) (*StatementMetrics, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sm, ok := m.statements[name]
	if !ok {
		return nil, false
	}
	statementCopy := *sm
	return &statementCopy, true
}

// GetAllStatementMetrics returns metrics for all statements ordered by name.
func (m *MetricsCollector) GetAllStatementMetrics() []*StatementMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*StatementMetrics, 0, len(m.statements))
	for _, sm := range m.statements {
		statementCopy := *sm
		result = append(result, &statementCopy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Reset clears all metrics.
func (m *MetricsCollector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.service = ServiceMetrics{StartTime: time.Now()}
	m.statements = make(map[string]*StatementMetrics)
}
