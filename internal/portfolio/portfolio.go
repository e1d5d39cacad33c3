// Package portfolio keeps the ordered set of processed policies a user is
// comparing.
package portfolio

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/policy-compare/internal/model"
)

// Entry is one uploaded policy.
type Entry struct {
	ID         string              `json:"id"`
	UploadName string              `json:"uploadName"`
	AddedAt    time.Time           `json:"addedAt"`
	Failed     bool                `json:"failed"`
	Data       model.ProcessedData `json:"data"`
}

// Portfolio is a concurrent-safe, append-ordered list of entries.
type Portfolio struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

// New creates an empty Portfolio.
func New() *Portfolio {
	return &Portfolio{now: time.Now}
}

// Add appends a processed file. Results without columns are kept but
// flagged as failed so callers can show them as failed uploads.
func (p *Portfolio) Add(uploadName string, data model.ProcessedData) Entry {
	e := Entry{
		ID:         uuid.NewString(),
		UploadName: uploadName,
		AddedAt:    p.now().UTC(),
		Failed:     data.IsEmpty(),
		Data:       data,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, e)
	return e
}

// List returns a copy of all entries in insertion order.
func (p *Portfolio) List() []Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Remove deletes the entry at index and returns it.
func (p *Portfolio) Remove(index int) (Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index >= len(p.entries) {
		return Entry{}, eris.Errorf("portfolio: index %d out of range [0,%d)", index, len(p.entries))
	}
	e := p.entries[index]
	p.entries = append(p.entries[:index:index], p.entries[index+1:]...)
	return e, nil
}

// Policies returns the data of every entry, failed ones included, in order.
func (p *Portfolio) Policies() []model.ProcessedData {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.ProcessedData, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.Data
	}
	return out
}

// Len returns the number of entries.
func (p *Portfolio) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}
