package catalog

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sahildhillon803/STRATIFY/internal/models"
)

func TestLoadRecords_Fixture(t *testing.T) {
	records, err := LoadRecords(filepath.Join("testdata", "investors.csv"))
	if err != nil {
		t.Fatalf("LoadRecords() error = %v", err)
	}

	if len(records) != 5 {
		t.Fatalf("len = %d, want 5", len(records))
	}

	t.Run("ids are row ordinals", func(t *testing.T) {
		for i, rec := range records {
			if rec.ID != i {
				t.Errorf("records[%d].ID = %d", i, rec.ID)
			}
		}
	})

	t.Run("fully populated row passes through", func(t *testing.T) {
		rec := records[0]
		if rec.Name != "Alpha Ventures" {
			t.Errorf("Name = %q", rec.Name)
		}
		if rec.HeadquartersRaw != "San Francisco, USA" {
			t.Errorf("HeadquartersRaw = %q", rec.HeadquartersRaw)
		}
		if rec.HeadquartersCountry != "USA" {
			t.Errorf("HeadquartersCountry = %q", rec.HeadquartersCountry)
		}
		if rec.ChequeMin == nil || *rec.ChequeMin != 100000 {
			t.Errorf("ChequeMin = %v", rec.ChequeMin)
		}
		if rec.ChequeMax == nil || *rec.ChequeMax != 500000 {
			t.Errorf("ChequeMax = %v", rec.ChequeMax)
		}
	})

	t.Run("missing name defaults", func(t *testing.T) {
		if records[1].Name != "Unknown Investor" {
			t.Errorf("Name = %q", records[1].Name)
		}
	})

	t.Run("missing hq gets sentinel and sentinel country", func(t *testing.T) {
		rec := records[2]
		if rec.HeadquartersRaw != models.UnknownLocation {
			t.Errorf("HeadquartersRaw = %q", rec.HeadquartersRaw)
		}
		if rec.HeadquartersCountry != models.UnknownLocation {
			t.Errorf("HeadquartersCountry = %q", rec.HeadquartersCountry)
		}
	})

	t.Run("missing type defaults to VC", func(t *testing.T) {
		if records[3].Type != "VC" {
			t.Errorf("Type = %q", records[3].Type)
		}
	})

	t.Run("absent cheque bounds stay nil", func(t *testing.T) {
		if records[3].ChequeMax != nil {
			t.Errorf("ChequeMax = %v, want nil", records[3].ChequeMax)
		}
		if records[4].ChequeMin != nil {
			t.Errorf("ChequeMin = %v, want nil", records[4].ChequeMin)
		}
	})

	t.Run("empty thesis preserved as empty", func(t *testing.T) {
		if records[3].InvestmentThesis != "" {
			t.Errorf("InvestmentThesis = %q", records[3].InvestmentThesis)
		}
	})
}

func TestLoadRecords_MissingFile(t *testing.T) {
	_, err := LoadRecords(filepath.Join("testdata", "does-not-exist.csv"))

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
}

func TestParseRecords_MissingColumn(t *testing.T) {
	src := "investor_name,investor_type\nAlpha,VC\n"

	_, err := parseRecords(strings.NewReader(src))
	if err == nil {
		t.Fatal("parseRecords() error = nil, want missing column error")
	}
	if !strings.Contains(err.Error(), "global_hq") {
		t.Errorf("err = %v, want mention of missing column", err)
	}
}

func TestParseRecords_EmptySource(t *testing.T) {
	_, err := parseRecords(strings.NewReader(""))
	if err == nil {
		t.Fatal("parseRecords() error = nil, want error")
	}
}

func TestParseRecords_RaggedRow(t *testing.T) {
	src := strings.Join([]string{
		"investor_name,investor_type,global_hq,website,stage_of_investment,investment_thesis,first_cheque_minimum,first_cheque_maximum",
		"Short Row,VC", // trailing fields absent entirely
	}, "\n") + "\n"

	records, err := parseRecords(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parseRecords() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}

	rec := records[0]
	if rec.Name != "Short Row" {
		t.Errorf("Name = %q", rec.Name)
	}
	if rec.HeadquartersRaw != models.UnknownLocation {
		t.Errorf("HeadquartersRaw = %q, want sentinel", rec.HeadquartersRaw)
	}
	if rec.ChequeMin != nil || rec.ChequeMax != nil {
		t.Error("absent cheque fields should stay nil")
	}
}

func TestParseRecords_BOMHeader(t *testing.T) {
	src := "\uFEFFinvestor_name,investor_type,global_hq,website,stage_of_investment,investment_thesis,first_cheque_minimum,first_cheque_maximum\n" +
		"Alpha,VC,USA,,Seed,thesis,1,2\n"

	records, err := parseRecords(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parseRecords() error = %v", err)
	}
	if records[0].Name != "Alpha" {
		t.Errorf("Name = %q", records[0].Name)
	}
}

func TestExtractCountry(t *testing.T) {
	tests := []struct {
		name string
		hq   string
		want string
	}{
		{
			name: "single segment",
			hq:   "USA",
			want: "USA",
		},
		{
			name: "city and country",
			hq:   "San Francisco, USA",
			want: "USA",
		},
		{
			name: "three segments",
			hq:   "SoMa, San Francisco, USA",
			want: "USA",
		},
		{
			name: "trailing comma skips empty segment",
			hq:   "Berlin, Germany, ",
			want: "Germany",
		},
		{
			name: "sentinel passes through",
			hq:   models.UnknownLocation,
			want: models.UnknownLocation,
		},
		{
			name: "only separators falls back to sentinel",
			hq:   " , , ",
			want: models.UnknownLocation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractCountry(tt.hq); got != tt.want {
				t.Errorf("extractCountry(%q) = %q, want %q", tt.hq, got, tt.want)
			}
		})
	}
}

func TestParseCheque(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *float64
	}{
		{name: "integer", input: "100000", want: floatPtr(100000)},
		{name: "decimal", input: "2500.50", want: floatPtr(2500.50)},
		{name: "scientific", input: "1e6", want: floatPtr(1000000)},
		{name: "padded", input: " 42 ", want: floatPtr(42)},
		{name: "empty", input: "", want: nil},
		{name: "whitespace", input: "   ", want: nil},
		{name: "garbage", input: "$1M", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCheque(tt.input)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("parseCheque(%q) = %v, want nil", tt.input, *got)
			case tt.want != nil && got == nil:
				t.Errorf("parseCheque(%q) = nil, want %v", tt.input, *tt.want)
			case tt.want != nil && got != nil && *got != *tt.want:
				t.Errorf("parseCheque(%q) = %v, want %v", tt.input, *got, *tt.want)
			}
		})
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
