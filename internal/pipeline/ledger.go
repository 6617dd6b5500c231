package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FailureEntry is one failed target: its identifier and the error message
// that removed it from the batch.
type FailureEntry struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// FailureLedger accumulates resolution and fit failures for a batch run.
// Append-only; entries keep insertion order. Processing is sequential, but
// the ledger spans the resolver and driver phases, so writes are guarded.
type FailureLedger struct {
	mu      sync.Mutex
	entries []FailureEntry
}

// NewFailureLedger returns an empty ledger.
func NewFailureLedger() *FailureLedger {
	return &FailureLedger{}
}

// Add records a failed target.
func (l *FailureLedger) Add(id, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, FailureEntry{ID: id, Error: message})
}

// Len returns the number of recorded failures.
func (l *FailureLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a copy of the recorded failures in insertion order.
func (l *FailureLedger) Entries() []FailureEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]FailureEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// WriteCSV serializes the ledger to a two-column table (id, error), one row
// per failed target. The file is written even when the ledger is empty so a
// run always leaves a reviewable artifact.
func (l *FailureLedger) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ledger file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"id", "error"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, e := range l.Entries() {
		if err := writer.Write([]string{e.ID, e.Error}); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return writer.Error()
}
