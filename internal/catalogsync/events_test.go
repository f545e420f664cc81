package catalogsync

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs []kafka.Message
}

func (w *captureWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func TestKafkaPublisherKeysByResource(t *testing.T) {
	w := &captureWriter{}
	p := NewKafkaPublisher(w)

	r := model.NewSyncReport(model.ResourceProducts, model.ModeImport)
	r.Total = 1
	r.RecordImported()
	r.Finish()

	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, p.Publish(context.Background(), RunEvent{
		EventID:   "e-1",
		EventType: EventRunCompleted,
		Resource:  model.ResourceProducts,
		Mode:      model.ModeImport,
		Report:    &r,
		Timestamp: ts,
	}))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "products", string(w.msgs[0].Key))
	assert.Equal(t, ts, w.msgs[0].Time)

	var got RunEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, EventRunCompleted, got.EventType)
	require.NotNil(t, got.Report)
	assert.Equal(t, 1, got.Report.Imported)
}

func TestMemoryReportStoreKeepsLatestPerResourceAndMode(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryReportStore()

	first := model.NewSyncReport(model.ResourceProducts, model.ModeImport)
	first.Total = 1
	second := model.NewSyncReport(model.ResourceProducts, model.ModeImport)
	second.Total = 2
	resync := model.NewSyncReport(model.ResourceProducts, model.ModeResync)
	cats := model.NewSyncReport(model.ResourceCategories, "")

	for _, r := range []*model.SyncReport{&first, &second, &resync, &cats} {
		require.NoError(t, s.Save(ctx, r))
	}

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 2, all["products:import"].Total)
	assert.Contains(t, all, "products:resync")
	assert.Contains(t, all, "categories")
}
