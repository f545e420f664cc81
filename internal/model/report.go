package model

import (
	"fmt"
	"strings"
	"time"
)

// Sync resources.
const (
	ResourceCategories = "categories"
	ResourceProducts   = "products"
	ResourceOrders     = "orders"
)

// Sync modes. Only products distinguish between them.
const (
	ModeImport = "import"
	ModeResync = "resync"
)

// SyncReport accumulates the outcome of one synchronization run.
//
// Skipped counts every record that was not written, errored ones included;
// Errors is the errored subset. Unresolved counts relationships that were
// dropped because the other side does not exist locally (orphaned category
// parents, unknown product categories, unmatched order lines).
type SyncReport struct {
	Resource   string    `json:"resource"`
	Mode       string    `json:"mode,omitempty"`
	Total      int       `json:"total"`
	Imported   int       `json:"imported"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Errors     int       `json:"errors"`
	Unresolved int       `json:"unresolved"`
	Message    string    `json:"message"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func NewSyncReport(resource, mode string) SyncReport {
	return SyncReport{Resource: resource, Mode: mode, StartedAt: time.Now().UTC()}
}

func (r *SyncReport) RecordImported() { r.Imported++ }
func (r *SyncReport) RecordUpdated()  { r.Updated++ }
func (r *SyncReport) RecordSkipped()  { r.Skipped++ }

func (r *SyncReport) RecordError(countAsSkipped bool) {
	r.Errors++
	if countAsSkipped {
		r.Skipped++
	}
}

func (r *SyncReport) RecordUnresolved(n int) { r.Unresolved += n }

// Finish stamps the end time and composes the summary message.
func (r *SyncReport) Finish() {
	r.FinishedAt = time.Now().UTC()

	parts := []string{}
	if r.Imported > 0 {
		parts = append(parts, fmt.Sprintf("%d imported", r.Imported))
	}
	if r.Updated > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", r.Updated))
	}
	if r.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", r.Skipped))
	}
	if r.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", r.Errors))
	}
	if r.Unresolved > 0 {
		parts = append(parts, fmt.Sprintf("%d unresolved links", r.Unresolved))
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing to do")
	}

	r.Message = fmt.Sprintf("Synced %d %s: %s", r.Total, r.Resource, strings.Join(parts, ", "))
}
