package standings

import (
	"fmt"
	"sort"
)

// Rank orders the season totals into the report.
//
// Ranked drivers come first by ascending rank, drivers sharing a rank by
// descending points. Unranked drivers follow by descending points. Records
// still tied keep the order in which their drivers were first aggregated.
// totals is left untouched.
func Rank(totals *SeasonTotals) (RankedReport, error) {
	if totals == nil {
		return nil, fmt.Errorf("rank: nil totals: %w", ErrInvalidArgument)
	}

	report := RankedReport(totals.Records())
	sort.SliceStable(report, func(i, j int) bool {
		return before(report[i], report[j])
	})
	return report, nil
}

func before(a, b DriverSeasonRecord) bool {
	if a.Ranked() != b.Ranked() {
		return a.Ranked()
	}
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.TotalPoints > b.TotalPoints
}

// Build aggregates rows and ranks the result.
func Build(rows []RaceStandingRow) (RankedReport, error) {
	totals, err := Aggregate(rows)
	if err != nil {
		return nil, err
	}
	return Rank(totals)
}

// Leader returns the first record of the report.
func (r RankedReport) Leader() (DriverSeasonRecord, bool) {
	if len(r) == 0 {
		return DriverSeasonRecord{}, false
	}
	return r[0], true
}

// Equal reports whether both reports hold the same records in the same order.
func (r RankedReport) Equal(other RankedReport) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}
