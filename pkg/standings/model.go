// Package standings folds the per-race driver standings of a season into one
// record per driver and orders those records into the season report.
package standings

// DriverID identifies a driver across the races of a season.
type DriverID int64

// RaceStandingRow is the standings entry of one driver after one race.
// A zero Position means no rank was recorded for that entry.
type RaceStandingRow struct {
	DriverID   DriverID `json:"driver_id"`
	DriverName string   `json:"driver_name"`
	Wins       int      `json:"wins"`
	Points     int      `json:"points"`
	Position   int      `json:"position"`
}

// DriverSeasonRecord accumulates every row of one driver in a season.
type DriverSeasonRecord struct {
	DriverID    DriverID `json:"driver_id"`
	DriverName  string   `json:"driver_name"`
	TotalWins   int      `json:"total_wins"`
	TotalPoints int      `json:"total_points"`
	Rank        int      `json:"rank"`
}

// Ranked reports whether the driver finished the season with a known rank.
func (r DriverSeasonRecord) Ranked() bool {
	return r.Rank != 0
}

// RankedReport is the ordered season report, one record per driver.
type RankedReport []DriverSeasonRecord

// SeasonTotals maps each driver of a season to its accumulated record and
// remembers the order in which drivers were first seen.
type SeasonTotals struct {
	index   map[DriverID]int
	records []DriverSeasonRecord
}

func newSeasonTotals(capacity int) *SeasonTotals {
	return &SeasonTotals{
		index:   make(map[DriverID]int, capacity),
		records: make([]DriverSeasonRecord, 0, capacity),
	}
}

// Len returns the number of distinct drivers.
func (t *SeasonTotals) Len() int {
	return len(t.records)
}

// Get returns the record of a driver.
func (t *SeasonTotals) Get(id DriverID) (DriverSeasonRecord, bool) {
	i, ok := t.index[id]
	if !ok {
		return DriverSeasonRecord{}, false
	}
	return t.records[i], true
}

// DriverIDs returns the drivers in first-seen order.
func (t *SeasonTotals) DriverIDs() []DriverID {
	ids := make([]DriverID, len(t.records))
	for i, r := range t.records {
		ids[i] = r.DriverID
	}
	return ids
}

// Records returns a copy of the records in first-seen order.
func (t *SeasonTotals) Records() []DriverSeasonRecord {
	out := make([]DriverSeasonRecord, len(t.records))
	copy(out, t.records)
	return out
}

// record returns the record of id, inserting an empty one named name if the
// driver has not been seen yet.
func (t *SeasonTotals) record(id DriverID, name string) *DriverSeasonRecord {
	i, ok := t.index[id]
	if !ok {
		i = len(t.records)
		t.index[id] = i
		t.records = append(t.records, DriverSeasonRecord{
			DriverID:   id,
			DriverName: name,
		})
	}
	return &t.records[i]
}
