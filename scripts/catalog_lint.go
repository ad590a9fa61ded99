// Package main provides a CLI tool to lint an investor catalog CSV before it
// is deployed to the matching API. It reports the rows the loader would
// normalize away (blank names, missing locations, empty theses, bad cheque
// values) so data problems are fixed at the source instead of silently
// defaulted.
//
// Usage:
//
//	go run scripts/catalog_lint.go -file /path/to/cleaned_investors.csv
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Config holds the CLI configuration
type Config struct {
	FilePath string
	Strict   bool
	MaxShown int
}

// Required catalog columns, matching what the API loader expects
var requiredColumns = []string{
	"investor_name",
	"investor_type",
	"global_hq",
	"website",
	"stage_of_investment",
	"investment_thesis",
	"first_cheque_minimum",
	"first_cheque_maximum",
}

// Stats tracks lint findings
type Stats struct {
	TotalRows      int
	MissingName    int
	MissingType    int
	MissingHQ      int
	EmptyThesis    int
	BadCheques     int
	InvertedBands  int
	DuplicateNames int
}

func (s Stats) warnings() int {
	return s.MissingName + s.MissingType + s.MissingHQ + s.EmptyThesis +
		s.BadCheques + s.InvertedBands + s.DuplicateNames
}

func main() {
	cfg := parseFlags()

	if cfg.FilePath == "" {
		fmt.Println("Error: -file is required")
		flag.Usage()
		os.Exit(1)
	}

	fmt.Printf("🔍 Investor Catalog Lint\n")
	fmt.Printf("   CSV File: %s\n", cfg.FilePath)
	fmt.Println()

	file, err := os.Open(cfg.FilePath)
	if err != nil {
		fmt.Printf("Error: cannot open file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	stats, problems, err := lint(file, cfg.MaxShown)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	for _, p := range problems {
		fmt.Printf("   ⚠ %s\n", p)
	}
	if len(problems) > 0 {
		fmt.Println()
	}

	fmt.Println("📊 Lint Summary")
	fmt.Println("   ─────────────────────")
	fmt.Printf("   Total rows:            %d\n", stats.TotalRows)
	fmt.Printf("   Missing names:         %d\n", stats.MissingName)
	fmt.Printf("   Missing types:         %d\n", stats.MissingType)
	fmt.Printf("   Missing locations:     %d\n", stats.MissingHQ)
	fmt.Printf("   Empty theses:          %d\n", stats.EmptyThesis)
	fmt.Printf("   Bad cheque values:     %d\n", stats.BadCheques)
	fmt.Printf("   Inverted cheque bands: %d\n", stats.InvertedBands)
	fmt.Printf("   Duplicate names:       %d\n", stats.DuplicateNames)
	fmt.Println()

	if stats.warnings() == 0 {
		fmt.Println("✓ Catalog is clean")
		return
	}

	fmt.Printf("⚠ %d finding(s); rows will load with defaults applied\n", stats.warnings())

	if cfg.Strict {
		os.Exit(1)
	}
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.FilePath, "file", "", "Path to catalog CSV file (required)")
	flag.BoolVar(&cfg.Strict, "strict", false, "Exit non-zero when any finding is reported")
	flag.IntVar(&cfg.MaxShown, "max-shown", 20, "Maximum individual findings to print")

	flag.Parse()
	return cfg
}

// lint reads the CSV and collects findings. A header or parse failure is a
// hard error, mirroring the API loader, which refuses the whole file.
func lint(r io.Reader, maxShown int) (Stats, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Stats{}, nil, errors.New("empty catalog source")
		}
		return Stats{}, nil, fmt.Errorf("read header: %w", err)
	}

	if len(header) > 0 {
		// Strip a UTF-8 BOM left by spreadsheet exports.
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Stats{}, nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	var (
		stats     Stats
		problems  []string
		seenNames = make(map[string]int)
	)

	addProblem := func(format string, args ...any) {
		if len(problems) < maxShown {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Stats{}, nil, fmt.Errorf("read row %d: %w", stats.TotalRows+2, err)
		}

		stats.TotalRows++
		line := stats.TotalRows + 1 // 1-based, after header

		get := func(col string) string {
			idx := cols[col]
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		name := get("investor_name")
		if name == "" {
			stats.MissingName++
			addProblem("row %d: missing investor_name (loads as \"Unknown Investor\")", line)
		} else {
			seenNames[strings.ToLower(name)]++
			if seenNames[strings.ToLower(name)] == 2 {
				stats.DuplicateNames++
				addProblem("row %d: duplicate investor_name %q", line, name)
			}
		}

		if get("investor_type") == "" {
			stats.MissingType++
		}

		if get("global_hq") == "" {
			stats.MissingHQ++
			addProblem("row %d: missing global_hq (loads as \"Location Unknown\")", line)
		}

		if get("investment_thesis") == "" {
			stats.EmptyThesis++
			addProblem("row %d: empty investment_thesis (never ranked by similarity)", line)
		}

		minVal, minBad := parseCheque(get("first_cheque_minimum"))
		maxVal, maxBad := parseCheque(get("first_cheque_maximum"))

		if minBad {
			stats.BadCheques++
			addProblem("row %d: unparseable first_cheque_minimum %q", line, get("first_cheque_minimum"))
		}
		if maxBad {
			stats.BadCheques++
			addProblem("row %d: unparseable first_cheque_maximum %q", line, get("first_cheque_maximum"))
		}

		if minVal != nil && maxVal != nil && *minVal > *maxVal {
			stats.InvertedBands++
			addProblem("row %d: cheque minimum %s exceeds maximum %s", line,
				formatAmount(*minVal), formatAmount(*maxVal))
		}
	}

	sort.Strings(problems)

	return stats, problems, nil
}

// parseCheque reports the parsed bound and whether a non-empty value failed
// to parse (the loader treats such values as absent).
func parseCheque(s string) (*float64, bool) {
	if s == "" {
		return nil, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, true
	}

	return &v, false
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
