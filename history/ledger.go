// Package history keeps the bounded, newest-first ledger of past diagnoses.
package history

import (
	"errors"
	"fmt"
	"sync"

	"leafstage/models"
)

const DefaultCapacity = 20

// Store persists the ledger. Implementations only see whole snapshots.
type Store interface {
	Load() ([]models.HistoryItem, error)
	Save(items []models.HistoryItem) error
}

type Options struct {
	Capacity               int  `yaml:"capacity"`
	RecordInvalidDiagnoses bool `yaml:"record_invalid_diagnoses"`
}

func DefaultOptions() Options {
	return Options{Capacity: DefaultCapacity}
}

// Ledger is safe for concurrent use. Every mutation holds the lock across
// the in-memory update and the Store save.
type Ledger struct {
	mu    sync.Mutex
	opts  Options
	store Store
	items []models.HistoryItem // newest first
}

// NewLedger loads any persisted items from store, which may be nil for a
// memory-only ledger. Loaded items beyond capacity are dropped.
func NewLedger(opts Options, store Store) (*Ledger, error) {
	if opts.Capacity <= 0 {
		return nil, fmt.Errorf("ledger capacity must be positive, got %d", opts.Capacity)
	}
	l := &Ledger{opts: opts, store: store}
	if store != nil {
		items, err := store.Load()
		if err != nil {
			return nil, fmt.Errorf("load history: %w", err)
		}
		if len(items) > opts.Capacity {
			items = items[:opts.Capacity]
		}
		l.items = items
	}
	return l, nil
}

// Append commits the summary of r at the front of the ledger, evicting the
// oldest entry past capacity. N0 results are skipped unless
// RecordInvalidDiagnoses is set. It reports whether the item was recorded.
func (l *Ledger) Append(r *models.AnalysisResult) (bool, error) {
	if r == nil {
		return false, errors.New("nil result")
	}
	if r.Stage == models.StageInvalid && !l.opts.RecordInvalidDiagnoses {
		return false, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]models.HistoryItem, 0, min(len(l.items)+1, l.opts.Capacity))
	next = append(next, r.Summary())
	for _, it := range l.items {
		if len(next) == l.opts.Capacity {
			break
		}
		next = append(next, it)
	}
	if err := l.commit(next); err != nil {
		return false, err
	}
	return true, nil
}

// List returns a copy of the ledger, newest first.
func (l *Ledger) List() []models.HistoryItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.HistoryItem{}, l.items...)
}

func (l *Ledger) Get(id string) (models.HistoryItem, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range l.items {
		if it.ID == id {
			return it, true
		}
	}
	return models.HistoryItem{}, false
}

// Remove deletes one entry and reports whether it existed.
func (l *Ledger) Remove(id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]models.HistoryItem, 0, len(l.items))
	for _, it := range l.items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	if len(next) == len(l.items) {
		return false, nil
	}
	if err := l.commit(next); err != nil {
		return false, err
	}
	return true, nil
}

func (l *Ledger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commit([]models.HistoryItem{})
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *Ledger) Capacity() int { return l.opts.Capacity }

// commit saves next and only then swaps it in, so a failed save leaves the
// ledger unchanged. Callers hold l.mu.
func (l *Ledger) commit(next []models.HistoryItem) error {
	if l.store != nil {
		if err := l.store.Save(next); err != nil {
			return fmt.Errorf("save history: %w", err)
		}
	}
	l.items = next
	return nil
}
