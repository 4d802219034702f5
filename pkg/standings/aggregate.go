package standings

import "fmt"

// Aggregate folds the standings rows of one season into one record per
// driver, in row order.
//
// Wins and points are summed. The rank of a driver is the position of the
// last row with a nonzero position; rows with a zero position never clear a
// rank already set. Values are not range checked.
//
// A nil slice is rejected with ErrInvalidArgument, an empty one yields empty
// totals.
func Aggregate(rows []RaceStandingRow) (*SeasonTotals, error) {
	if rows == nil {
		return nil, fmt.Errorf("aggregate: nil rows: %w", ErrInvalidArgument)
	}

	totals := newSeasonTotals(len(rows))
	for _, row := range rows {
		rec := totals.record(row.DriverID, row.DriverName)
		rec.TotalWins += row.Wins
		rec.TotalPoints += row.Points
		if row.Position != 0 {
			rec.Rank = row.Position
		}
	}
	return totals, nil
}
