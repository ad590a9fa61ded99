package catalog

import (
	"testing"

	"github.com/sahildhillon803/STRATIFY/internal/models"
)

func TestNew_RejectsMisalignment(t *testing.T) {
	records := []models.InvestorRecord{{ID: 0}, {ID: 1}}
	embeddings := [][]float32{{1, 0}}

	if _, err := New(records, embeddings, 2); err == nil {
		t.Error("New() error = nil, want alignment error")
	}
}

func TestNew_AlignedSnapshot(t *testing.T) {
	records := []models.InvestorRecord{{ID: 0}, {ID: 1}}
	embeddings := [][]float32{{1, 0}, {0, 1}}

	c, err := New(records, embeddings, 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
	if c.LoadedAt.IsZero() {
		t.Error("LoadedAt not set")
	}
}

func TestStore_Swap(t *testing.T) {
	first, err := New([]models.InvestorRecord{{ID: 0}}, [][]float32{{1}}, 1)
	if err != nil {
		t.Fatal(err)
	}

	store := NewStore(first)
	if store.Current() != first {
		t.Fatal("Current() does not return initial snapshot")
	}

	second, err := New([]models.InvestorRecord{{ID: 0}, {ID: 1}}, [][]float32{{1}, {1}}, 1)
	if err != nil {
		t.Fatal(err)
	}

	store.Swap(second)
	if store.Current() != second {
		t.Error("Current() does not return swapped snapshot")
	}
}
