package engine

import (
	"testing"

	"github.com/gael-paolo/st-parts-track/model"
)

func clientRecords(clients ...string) []model.AnalysisResult {
	out := make([]model.AnalysisResult, len(clients))
	for i, c := range clients {
		out[i] = model.AnalysisResult{
			OrderLine:   model.OrderLine{Reference: "R", Client: c},
			StatusLabel: model.LabelInTransit,
		}
	}
	return out
}

func TestFilterSimilarAccentAndCaseInsensitive(t *testing.T) {
	records := clientRecords("García Motors", "Taller Pérez", "Importadora Andina")

	lower := FilterSimilar(records, "client", "garcia motors", 10, 80)
	upper := FilterSimilar(records, "client", "GARCÍA MOTORS", 10, 80)

	if len(lower) != 1 || lower[0].Client != "García Motors" {
		t.Fatalf("lowercase query: got %d results", len(lower))
	}
	if len(upper) != len(lower) || upper[0].Client != lower[0].Client {
		t.Errorf("accented uppercase query returned a different result set")
	}
}

func TestFilterSimilarTokenOrderInsensitive(t *testing.T) {
	records := clientRecords("John Smith")
	got := FilterSimilar(records, "client", "Smith John", 10, 95)
	if len(got) != 1 {
		t.Errorf("word order should not penalize the score, got %d results", len(got))
	}
}

func TestFilterSimilarImpossibleThreshold(t *testing.T) {
	records := clientRecords("García Motors")
	got := FilterSimilar(records, "client", "García Motors", 10, 101)
	if got == nil {
		t.Fatal("expected empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("threshold 101 should match nothing, got %d", len(got))
	}
}

func TestFilterSimilarLimitBoundsDistinctValues(t *testing.T) {
	// Three rows share one client value; limit=1 still returns all three rows.
	records := clientRecords("Garcia Motors", "Garcia Motors", "Garcia Motors")
	got := FilterSimilar(records, "client", "garcia motors", 1, 80)
	if len(got) != 3 {
		t.Errorf("limit caps distinct values, not rows: got %d rows, want 3", len(got))
	}
}

func TestFilterSimilarRanksByScore(t *testing.T) {
	records := clientRecords("Garcia Motors", "Garcia Motor Sport", "Gonzalez Hnos")
	got := FilterSimilar(records, "client", "garcia motors", 1, 60)
	if len(got) != 1 {
		t.Fatalf("expected only the top-scoring distinct value, got %d rows", len(got))
	}
	if got[0].Client != "Garcia Motors" {
		t.Errorf("kept %q, want exact match to rank first", got[0].Client)
	}
}

func TestFilterSimilarEmptyQuery(t *testing.T) {
	records := clientRecords("Garcia Motors")
	if got := FilterSimilar(records, "client", "   ", 10, 80); len(got) != 0 {
		t.Errorf("blank query should match nothing, got %d", len(got))
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  GARCÍA  ", "garcia"},
		{"pérez", "perez"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
