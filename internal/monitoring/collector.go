package monitoring

import (
	"time"

	"github.com/sells-group/policy-compare/internal/portfolio"
	"github.com/sells-group/policy-compare/internal/registry"
)

// Snapshot holds a point-in-time view of the uploaded portfolio.
type Snapshot struct {
	Files          int            `json:"files"`
	Succeeded      int            `json:"succeeded"`
	Failed         int            `json:"failed"`
	FailureRate    float64        `json:"failure_rate"`
	UnknownCompany int            `json:"unknown_company"`
	Rows           int            `json:"rows"`
	Companies      map[string]int `json:"companies"`
	CollectedAt    time.Time      `json:"collected_at"`
}

// EntryLister abstracts the portfolio methods needed by the collector.
type EntryLister interface {
	List() []portfolio.Entry
}

// Collector builds snapshots from the portfolio.
type Collector struct {
	entries EntryLister
}

// NewCollector creates a new snapshot collector.
func NewCollector(entries EntryLister) *Collector {
	return &Collector{entries: entries}
}

// Collect gathers a snapshot of the current portfolio.
func (c *Collector) Collect() *Snapshot {
	snap := &Snapshot{
		Companies:   make(map[string]int),
		CollectedAt: time.Now().UTC(),
	}

	for _, e := range c.entries.List() {
		snap.Files++
		if e.Failed {
			snap.Failed++
			continue
		}
		snap.Succeeded++
		snap.Rows += len(e.Data.TableData)
		snap.Companies[e.Data.Company]++
		if e.Data.Company == registry.UnknownCompany {
			snap.UnknownCompany++
		}
	}

	if snap.Files > 0 {
		snap.FailureRate = float64(snap.Failed) / float64(snap.Files)
	}
	return snap
}
