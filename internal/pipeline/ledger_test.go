package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLedgerWriteCSV(t *testing.T) {
	ledger := NewFailureLedger()
	ledger.Add("KIC2", "target not found")
	ledger.Add("KIC5", "fit blew up, with commas")

	path := filepath.Join(t.TempDir(), "out", "failed_targets.csv")
	if err := ledger.WriteCSV(path); err != nil {
		t.Fatal(err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	want := [][]string{
		{"id", "error"},
		{"KIC2", "target not found"},
		{"KIC5", "fit blew up, with commas"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("ledger file mismatch (-want +got):\n%s", diff)
	}
}

func TestLedgerEmptyStillWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed_targets.csv")
	if err := NewFailureLedger().WriteCSV(path); err != nil {
		t.Fatal(err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want header only", len(rows))
	}
}

func TestLedgerEntriesAreCopies(t *testing.T) {
	ledger := NewFailureLedger()
	ledger.Add("KIC1", "boom")

	entries := ledger.Entries()
	entries[0].ID = "mutated"

	if got := ledger.Entries()[0].ID; got != "KIC1" {
		t.Errorf("ledger entry mutated through copy: %q", got)
	}
}
