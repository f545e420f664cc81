package catalogsync

import (
	"context"
	"fmt"
	"sync"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const reportsKey = "catalog-sync:last-reports"

// ReportStore keeps the latest report per resource and mode.
type ReportStore interface {
	Save(ctx context.Context, report *model.SyncReport) error
	All(ctx context.Context) (map[string]model.SyncReport, error)
}

func reportField(r *model.SyncReport) string {
	if r.Mode == "" {
		return r.Resource
	}
	return r.Resource + ":" + r.Mode
}

type RedisReportStore struct {
	client redis.UniversalClient
}

func NewRedisReportStore(client redis.UniversalClient) *RedisReportStore {
	return &RedisReportStore{client: client}
}

func (s *RedisReportStore) Save(ctx context.Context, report *model.SyncReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, reportsKey, reportField(report), data).Err()
}

func (s *RedisReportStore) All(ctx context.Context) (map[string]model.SyncReport, error) {
	raw, err := s.client.HGetAll(ctx, reportsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("load sync reports: %w", err)
	}
	out := make(map[string]model.SyncReport, len(raw))
	for field, val := range raw {
		var r model.SyncReport
		if err := json.Unmarshal([]byte(val), &r); err != nil {
			continue
		}
		out[field] = r
	}
	return out, nil
}

// MemoryReportStore is the in-process fallback when redis is not configured.
type MemoryReportStore struct {
	mu      sync.RWMutex
	reports map[string]model.SyncReport
}

func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{reports: map[string]model.SyncReport{}}
}

func (s *MemoryReportStore) Save(ctx context.Context, report *model.SyncReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[reportField(report)] = *report
	return nil
}

func (s *MemoryReportStore) All(ctx context.Context) (map[string]model.SyncReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.SyncReport, len(s.reports))
	for k, v := range s.reports {
		out[k] = v
	}
	return out, nil
}
