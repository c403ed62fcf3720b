package store

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// storeMetrics holds the per-store counters, labelled by store identifier.
// Counters are process-global and survive store close/reopen cycles.
type storeMetrics struct {
	mutations    *metrics.Counter
	saves        *metrics.Counter
	saveErrors   *metrics.Counter
	loads        *metrics.Counter
	saveDuration *metrics.Summary
}

func newStoreMetrics(id string) *storeMetrics {
	return &storeMetrics{
		mutations:    metrics.GetOrCreateCounter(fmt.Sprintf(`pkv_store_mutations_total{store=%q}`, id)),
		saves:        metrics.GetOrCreateCounter(fmt.Sprintf(`pkv_store_saves_total{store=%q}`, id)),
		saveErrors:   metrics.GetOrCreateCounter(fmt.Sprintf(`pkv_store_save_errors_total{store=%q}`, id)),
		loads:        metrics.GetOrCreateCounter(fmt.Sprintf(`pkv_store_loads_total{store=%q}`, id)),
		saveDuration: metrics.GetOrCreateSummary(fmt.Sprintf(`pkv_store_save_duration_seconds{store=%q}`, id)),
	}
}
