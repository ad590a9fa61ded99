package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sahildhillon803/STRATIFY/internal/models"
)

// CSV column names expected in the catalog source.
const (
	colName      = "investor_name"
	colType      = "investor_type"
	colHQ        = "global_hq"
	colWebsite   = "website"
	colStages    = "stage_of_investment"
	colThesis    = "investment_thesis"
	colChequeMin = "first_cheque_minimum"
	colChequeMax = "first_cheque_maximum"
)

var requiredColumns = []string{
	colName, colType, colHQ, colWebsite, colStages, colThesis, colChequeMin, colChequeMax,
}

// LoadError reports that the catalog source could not be read or parsed at
// the table level. It is fatal to startup; row-level irregularities are
// normalized instead and never produce a LoadError.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadRecords reads the catalog CSV and returns normalized records in file
// order. Record IDs are row ordinals (0-based), stable only for the lifetime
// of the returned slice.
func LoadRecords(path string) ([]models.InvestorRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer func() { _ = file.Close() }()

	records, err := parseRecords(file)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	return records, nil
}

// parseRecords reads CSV rows from r. Rows with missing trailing fields are
// tolerated; their absent values go through the same defaults as empty cells.
func parseRecords(r io.Reader) ([]models.InvestorRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty catalog source")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []models.InvestorRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(records)+2, err)
		}

		records = append(records, normalizeRow(len(records), row, cols))
	}

	return records, nil
}

// columnIndex maps required column names to their positions in the header.
func columnIndex(header []string) (map[string]int, error) {
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
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	return cols, nil
}

// normalizeRow applies the field defaults and derives the country. Every row
// yields a record; nothing is rejected here.
func normalizeRow(id int, row []string, cols map[string]int) models.InvestorRecord {
	get := func(col string) string {
		idx := cols[col]
		if idx < len(row) {
			return row[idx]
		}
		return ""
	}

	hq := defaultIfEmpty(get(colHQ), models.UnknownLocation)

	return models.InvestorRecord{
		ID:                  id,
		Name:                defaultIfEmpty(get(colName), "Unknown Investor"),
		Type:                defaultIfEmpty(get(colType), "VC"),
		HeadquartersRaw:     hq,
		HeadquartersCountry: extractCountry(hq),
		Website:             get(colWebsite),
		InvestmentStages:    get(colStages),
		InvestmentThesis:    get(colThesis),
		ChequeMin:           parseCheque(get(colChequeMin)),
		ChequeMax:           parseCheque(get(colChequeMax)),
	}
}

func defaultIfEmpty(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// extractCountry reduces a full location string to its country: the last
// non-empty comma-separated segment, trimmed. The unknown-location sentinel
// passes through verbatim, as does a string with no usable segment.
func extractCountry(hq string) string {
	if hq == models.UnknownLocation {
		return hq
	}

	parts := strings.Split(hq, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		if p := strings.TrimSpace(parts[i]); p != "" {
			return p
		}
	}

	return models.UnknownLocation
}

// parseCheque parses a numeric cheque bound. Anything unparseable counts as
// absent, which the match filter treats as unconstrained.
func parseCheque(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}

	return &v
}
