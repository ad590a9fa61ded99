// Package tests provides end-to-end tests for the matching API: the real
// router, middleware, handlers, and match service wired against the local
// hashing embedder and a temp-file catalog, exercised over HTTP.
package tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key-12345"

// fixtureCSV is a small catalog with known cheque bands and stages, so
// filter outcomes are predictable regardless of similarity scores.
//
// For a 500k raise (band 400k-600k) and stage "Seed", exactly Alpha and
// Beacon qualify: Cobalt fails both filters and Delta's maximum cheque sits
// below the band. Delta still matches stage "Seed" because "Pre-Seed"
// contains it as a substring.
const fixtureCSV = `investor_name,investor_type,global_hq,website,stage_of_investment,investment_thesis,first_cheque_minimum,first_cheque_maximum
Alpha Ventures,VC,"San Francisco, USA",https://alpha.example,Pre-Seed | Seed,Developer tools and infrastructure software for engineering teams,100000,1000000
Beacon Capital,VC,"Toronto, Canada",https://beacon.example,Seed | Series A,Fintech platforms and payments infrastructure for emerging markets,250000,2000000
Cobalt Partners,PE,"London, UK",https://cobalt.example,Series B,Late stage enterprise software and marketplaces,5000000,20000000
Delta Angels,Angel Network,"Austin, USA",https://delta.example,Angel | Pre-Seed,Consumer mobile applications and social products,25000,100000
`

// extraInvestorRow is appended to the fixture by the reload test.
const extraInvestorRow = `Ember Fund,VC,"Berlin, Germany",https://ember.example,Seed,Climate and energy transition software,500000,3000000
`

// beaconThesis matches the fixture row for Beacon Capital verbatim. A match
// request using it as the startup description must rank Beacon first with a
// similarity of 1.
const beaconThesis = "Fintech platforms and payments infrastructure for emerging markets"

// writeFixtureCatalog writes the fixture CSV into a temp dir and returns its
// path. The file is writable so reload tests can append to it.
func writeFixtureCatalog(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "investors.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o644))

	return path
}
