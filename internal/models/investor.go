package models

// Sentinel values used across the matching API.
const (
	// FilterAll disables a browse filter dimension.
	FilterAll = "All"

	// UnknownLocation is the normalized headquarters value for investors
	// with no location data. It is excluded from filter dropdowns.
	UnknownLocation = "Location Unknown"

	// StatusSuccess is the status field value on successful responses.
	StatusSuccess = "success"
)

// Sort modes accepted by the browse endpoint. An unrecognized mode leaves
// the catalog in encounter order.
const (
	SortNameAsc    = "name_asc"
	SortNameDesc   = "name_desc"
	SortChequeDesc = "cheque_desc"
)

// InvestorRecord represents a single normalized investor in the catalog.
// Missing cheque bounds stay nil: the match filter treats a nil minimum as 0
// and a nil maximum as unbounded.
type InvestorRecord struct {
	ID                  int      `json:"id"`
	Name                string   `json:"name"`
	Type                string   `json:"type"`
	HeadquartersRaw     string   `json:"headquarters_raw"`
	HeadquartersCountry string   `json:"headquarters_country"`
	Website             string   `json:"website"`
	InvestmentStages    string   `json:"investment_stages"`
	InvestmentThesis    string   `json:"investment_thesis"`
	ChequeMin           *float64 `json:"first_cheque_minimum,omitempty"`
	ChequeMax           *float64 `json:"first_cheque_maximum,omitempty"`
}

// InvestorSummary represents the wire form of an investor in match and
// browse results. HQ carries the country extracted from the raw
// headquarters, not the full address.
type InvestorSummary struct {
	InvestorID int     `json:"investor_id"`
	Name       string  `json:"name"`
	MatchScore float64 `json:"match_score"`
	Website    string  `json:"website"`
	HQ         string  `json:"hq"`
	Type       string  `json:"type"`
}

// MatchRequest represents the request to match a startup against the
// catalog. Stage is optional; an empty stage matches every investor.
type MatchRequest struct {
	StartupDescription string  `json:"startup_description" validate:"required,notblank,max=10000,no_null_bytes"`
	RaiseAmount        float64 `json:"raise_amount" validate:"required,gt=0"`
	Stage              string  `json:"stage" validate:"omitempty,max=255,no_null_bytes"`
}

// MatchResponse represents the response to a match request. TopInvestors
// holds at most ten entries sorted by descending match score; an empty
// slice is a valid outcome, not an error.
type MatchResponse struct {
	Status       string            `json:"status"`
	TopInvestors []InvestorSummary `json:"top_investors"`
}

// ListInvestorsFilters represents query parameters for browsing the
// catalog. Zero values are replaced with the browse defaults before
// filtering (stage/hq "All", sort name_asc, limit 50).
type ListInvestorsFilters struct {
	Stage  string `form:"stage" validate:"omitempty,max=255,no_null_bytes"`
	HQ     string `form:"hq" validate:"omitempty,max=255,no_null_bytes"`
	SortBy string `form:"sort_by" validate:"omitempty,max=64,no_null_bytes"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=200"`
	Skip   int    `form:"skip" validate:"omitempty,min=0,max=2147483647"`
}

// ListInvestorsResponse represents the response for browsing the catalog.
// Total is the filtered count before pagination.
type ListInvestorsResponse struct {
	Status    string            `json:"status"`
	Investors []InvestorSummary `json:"investors"`
	Total     int               `json:"total"`
}

// FilterOptions represents the distinct values available for the browse
// filter dropdowns.
type FilterOptions struct {
	HQs    []string `json:"hqs"`
	Stages []string `json:"stages"`
}

// ReloadResponse represents the response to a catalog reload request.
type ReloadResponse struct {
	Status    string `json:"status"`
	Investors int    `json:"investors"`
}
