package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(id DriverID, name string, wins, points, position int) RaceStandingRow {
	return RaceStandingRow{DriverID: id, DriverName: name, Wins: wins, Points: points, Position: position}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name string
		rows []RaceStandingRow
		want map[DriverID]DriverSeasonRecord
	}{
		{
			name: "empty season",
			rows: []RaceStandingRow{},
			want: map[DriverID]DriverSeasonRecord{},
		},
		{
			name: "sums wins and points per driver",
			rows: []RaceStandingRow{
				row(1, "Max Verstappen", 1, 25, 1),
				row(2, "Lewis Hamilton", 0, 18, 2),
				row(1, "Max Verstappen", 1, 25, 1),
			},
			want: map[DriverID]DriverSeasonRecord{
				1: {DriverID: 1, DriverName: "Max Verstappen", TotalWins: 2, TotalPoints: 50, Rank: 1},
				2: {DriverID: 2, DriverName: "Lewis Hamilton", TotalWins: 0, TotalPoints: 18, Rank: 2},
			},
		},
		{
			name: "zero position keeps previous rank",
			rows: []RaceStandingRow{
				row(7, "Kimi Raikkonen", 0, 10, 4),
				row(7, "Kimi Raikkonen", 0, 0, 0),
			},
			want: map[DriverID]DriverSeasonRecord{
				7: {DriverID: 7, DriverName: "Kimi Raikkonen", TotalPoints: 10, Rank: 4},
			},
		},
		{
			name: "never ranked stays zero",
			rows: []RaceStandingRow{
				row(9, "Test Driver", 0, 0, 0),
				row(9, "Test Driver", 0, 2, 0),
			},
			want: map[DriverID]DriverSeasonRecord{
				9: {DriverID: 9, DriverName: "Test Driver", TotalPoints: 2},
			},
		},
		{
			name: "name comes from the first row",
			rows: []RaceStandingRow{
				row(3, "Nico Rosberg", 0, 1, 8),
				row(3, "N. Rosberg", 0, 1, 7),
			},
			want: map[DriverID]DriverSeasonRecord{
				3: {DriverID: 3, DriverName: "Nico Rosberg", TotalPoints: 2, Rank: 7},
			},
		},
		{
			name: "negative values pass through",
			rows: []RaceStandingRow{
				row(4, "Bad Data", -1, -5, -2),
			},
			want: map[DriverID]DriverSeasonRecord{
				4: {DriverID: 4, DriverName: "Bad Data", TotalWins: -1, TotalPoints: -5, Rank: -2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := Aggregate(tt.rows)
			require.NoError(t, err)
			require.Equal(t, len(tt.want), totals.Len())
			for id, want := range tt.want {
				got, ok := totals.Get(id)
				require.True(t, ok, "driver %d missing", id)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestAggregate_NilRows(t *testing.T) {
	totals, err := Aggregate(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Nil(t, totals)
}

func TestAggregate_RankOverwriteFollowsRowOrder(t *testing.T) {
	forward, err := Aggregate([]RaceStandingRow{
		row(1, "Fernando Alonso", 0, 10, 3),
		row(1, "Fernando Alonso", 0, 12, 5),
	})
	require.NoError(t, err)
	got, _ := forward.Get(1)
	assert.Equal(t, 5, got.Rank)

	reversed, err := Aggregate([]RaceStandingRow{
		row(1, "Fernando Alonso", 0, 12, 5),
		row(1, "Fernando Alonso", 0, 10, 3),
	})
	require.NoError(t, err)
	got, _ = reversed.Get(1)
	assert.Equal(t, 3, got.Rank)
}

func TestAggregate_FirstSeenOrder(t *testing.T) {
	totals, err := Aggregate([]RaceStandingRow{
		row(20, "Charles Leclerc", 0, 1, 0),
		row(10, "Carlos Sainz", 0, 1, 0),
		row(20, "Charles Leclerc", 0, 1, 0),
		row(30, "Lando Norris", 0, 1, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, []DriverID{20, 10, 30}, totals.DriverIDs())
}

func TestSeasonTotals_RecordsIsACopy(t *testing.T) {
	totals, err := Aggregate([]RaceStandingRow{row(1, "Max Verstappen", 1, 25, 1)})
	require.NoError(t, err)

	records := totals.Records()
	records[0].TotalPoints = 999

	got, _ := totals.Get(1)
	assert.Equal(t, 25, got.TotalPoints)
}
