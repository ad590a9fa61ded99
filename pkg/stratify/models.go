package stratify

// MatchRequest describes the startup profile to match against the catalog.
type MatchRequest struct {
	StartupDescription string  `json:"startup_description"`
	RaiseAmount        float64 `json:"raise_amount"`
	Stage              string  `json:"stage,omitempty"`
}

// InvestorSummary is a single investor in match or browse results. HQ is the
// headquarters country. MatchScore is zero in browse results.
type InvestorSummary struct {
	InvestorID int     `json:"investor_id"`
	Name       string  `json:"name"`
	MatchScore float64 `json:"match_score"`
	Website    string  `json:"website"`
	HQ         string  `json:"hq"`
	Type       string  `json:"type"`
}

// MatchResult is the response to a match request. TopInvestors holds at most
// ten entries sorted by descending match score; it may be empty.
type MatchResult struct {
	Status       string            `json:"status"`
	TopInvestors []InvestorSummary `json:"top_investors"`
}

// InvestorList is a page of catalog investors plus the filtered total.
type InvestorList struct {
	Status    string            `json:"status"`
	Investors []InvestorSummary `json:"investors"`
	Total     int               `json:"total"`
}

// FilterOptions lists the distinct headquarters countries and investment
// stages available for browse filters.
type FilterOptions struct {
	HQs    []string `json:"hqs"`
	Stages []string `json:"stages"`
}

// ReloadResult is the response to a catalog reload.
type ReloadResult struct {
	Status    string `json:"status"`
	Investors int    `json:"investors"`
}

// ListInvestorsOptions contains options for browsing the catalog. Zero
// values are omitted and the server applies its defaults.
type ListInvestorsOptions struct {
	Stage  string
	HQ     string
	SortBy string
	Limit  int
	Skip   int
}
