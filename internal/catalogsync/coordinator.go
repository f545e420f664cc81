// Package catalogsync runs synchronizations on behalf of the HTTP API and
// the command topic. Only one run per resource may be in flight.
package catalogsync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/category"
	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/fekuna/omnipos-catalog-sync/internal/metrics"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/fekuna/omnipos-catalog-sync/internal/order"
	"github.com/fekuna/omnipos-catalog-sync/internal/product"
	"github.com/fekuna/omnipos-catalog-sync/internal/synclock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrUnknownResource = errors.New("unknown sync resource")

// Request names one run. Mode only matters for products and defaults to
// import.
type Request struct {
	Resource    string `json:"resource"`
	Mode        string `json:"mode,omitempty"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// Runner is what transports call into.
type Runner interface {
	Run(ctx context.Context, req Request) (*model.SyncReport, error)
	LastReports(ctx context.Context) (map[string]model.SyncReport, error)
}

type Coordinator struct {
	categories category.UseCase
	products   product.UseCase
	orders     order.UseCase
	locker     synclock.Locker
	reports    ReportStore
	events     EventPublisher
	runTimeout time.Duration
	logger     logger.ZapLogger
}

type Deps struct {
	Categories category.UseCase
	Products   product.UseCase
	Orders     order.UseCase
	Locker     synclock.Locker
	Reports    ReportStore
	Events     EventPublisher // optional
}

func NewCoordinator(deps Deps, runTimeout time.Duration, log logger.ZapLogger) *Coordinator {
	return &Coordinator{
		categories: deps.Categories,
		products:   deps.Products,
		orders:     deps.Orders,
		locker:     deps.Locker,
		reports:    deps.Reports,
		events:     deps.Events,
		runTimeout: runTimeout,
		logger:     log,
	}
}

// Normalize validates a request and fills in defaults.
func Normalize(req Request) (Request, error) {
	req.Resource = strings.ToLower(strings.TrimSpace(req.Resource))
	req.Mode = strings.ToLower(strings.TrimSpace(req.Mode))

	switch req.Resource {
	case model.ResourceProducts:
		if req.Mode == "" {
			req.Mode = model.ModeImport
		}
		if req.Mode != model.ModeImport && req.Mode != model.ModeResync {
			return req, fmt.Errorf("%w: products/%s", ErrUnknownResource, req.Mode)
		}
	case model.ResourceCategories, model.ResourceOrders:
		req.Mode = ""
	default:
		return req, fmt.Errorf("%w: %q", ErrUnknownResource, req.Resource)
	}
	return req, nil
}

func (c *Coordinator) Run(ctx context.Context, req Request) (*model.SyncReport, error) {
	req, err := Normalize(req)
	if err != nil {
		return nil, err
	}

	// Import and resync both write products, so they share one lock.
	lease, err := c.locker.Acquire(ctx, req.Resource)
	if err != nil {
		if errors.Is(err, synclock.ErrLocked) {
			metrics.RecordLocked(req.Resource, req.Mode)
		}
		return nil, err
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lease.Release(releaseCtx); err != nil {
			c.logger.Error("failed to release sync lock", zap.String("resource", req.Resource), zap.Error(err))
		}
	}()

	if c.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.runTimeout)
		defer cancel()
	}

	c.logger.Info("sync run started",
		zap.String("resource", req.Resource),
		zap.String("mode", req.Mode),
		zap.String("requested_by", req.RequestedBy),
	)

	started := time.Now()
	report, err := c.dispatch(ctx, req)
	elapsed := time.Since(started)

	if err != nil {
		metrics.RecordRun(req.Resource, req.Mode, elapsed, 0, 0, 0, 0, 0, err)
		c.logger.Error("sync run failed",
			zap.String("resource", req.Resource),
			zap.String("mode", req.Mode),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		c.publish(req, nil, err)
		return nil, err
	}

	metrics.RecordRun(req.Resource, req.Mode, elapsed,
		report.Imported, report.Updated, report.Skipped, report.Errors, report.Unresolved, nil)

	if err := c.reports.Save(context.WithoutCancel(ctx), report); err != nil {
		c.logger.Warn("failed to store sync report", zap.String("resource", req.Resource), zap.Error(err))
	}
	c.publish(req, report, nil)

	c.logger.Info("sync run finished",
		zap.String("resource", req.Resource),
		zap.String("mode", req.Mode),
		zap.Duration("elapsed", elapsed),
		zap.String("summary", report.Message),
	)
	return report, nil
}

func (c *Coordinator) dispatch(ctx context.Context, req Request) (*model.SyncReport, error) {
	switch req.Resource {
	case model.ResourceCategories:
		return c.categories.SyncCategories(ctx)
	case model.ResourceProducts:
		return c.products.SyncProducts(ctx, req.Mode)
	case model.ResourceOrders:
		return c.orders.SyncOrders(ctx)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownResource, req.Resource)
}

func (c *Coordinator) LastReports(ctx context.Context) (map[string]model.SyncReport, error) {
	return c.reports.All(ctx)
}

func (c *Coordinator) publish(req Request, report *model.SyncReport, runErr error) {
	if c.events == nil {
		return
	}

	event := RunEvent{
		EventID:     uuid.New().String(),
		EventType:   EventRunCompleted,
		Resource:    req.Resource,
		Mode:        req.Mode,
		RequestedBy: req.RequestedBy,
		Report:      report,
		Timestamp:   time.Now().UTC(),
	}
	if runErr != nil {
		event.EventType = EventRunFailed
		event.Error = runErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.events.Publish(ctx, event); err != nil {
		c.logger.Warn("failed to publish sync event", zap.String("event_type", event.EventType), zap.Error(err))
	}
}
