package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustedRound(t *testing.T) {
	// Before and at the pause the counter maps straight through; past it
	// the pause slot is skipped.
	assert.Equal(t, 0, AdjustedRound(0, 2))
	assert.Equal(t, 1, AdjustedRound(1, 2))
	assert.Equal(t, 2, AdjustedRound(2, 2))
	assert.Equal(t, 2, AdjustedRound(3, 2))
	assert.Equal(t, 3, AdjustedRound(4, 2))
}

func TestCurrentStationAroundPause(t *testing.T) {
	cfg := fourStationConfig() // pause after round 2, team1 route 1,2,3,4

	// Rounds before the pause.
	st, ok := CurrentStation(cfg, "team1", 0)
	require.True(t, ok)
	assert.Equal(t, "1", st.ID)

	st, ok = CurrentStation(cfg, "team1", 1)
	require.True(t, ok)
	assert.Equal(t, "2", st.ID)

	// The pause round has no station.
	_, ok = CurrentStation(cfg, "team1", 2)
	assert.False(t, ok)

	// Round 3 lands on route[3-1]="3": the pause consumed a round slot
	// but not a station slot.
	st, ok = CurrentStation(cfg, "team1", 3)
	require.True(t, ok)
	assert.Equal(t, "3", st.ID)

	st, ok = CurrentStation(cfg, "team1", 4)
	require.True(t, ok)
	assert.Equal(t, "4", st.ID)
}

func TestCurrentStationUnknownTeamOrOverrun(t *testing.T) {
	cfg := fourStationConfig()

	_, ok := CurrentStation(cfg, "nope", 0)
	assert.False(t, ok)

	_, ok = CurrentStation(cfg, "team1", 99)
	assert.False(t, ok)
}

func TestGenerateRoutesRotation(t *testing.T) {
	cfg := fourStationConfig()
	routes := GenerateRoutes(cfg.Stations, cfg.Teams)

	assert.Equal(t, []string{"1", "2", "3", "4"}, routes["team1"])
	assert.Equal(t, []string{"2", "3", "4", "1"}, routes["team2"])
}

func TestGenerateRoutesNoCollisions(t *testing.T) {
	cfg := fourStationConfig()
	routes := GenerateRoutes(cfg.Stations, cfg.Teams)

	for round := 0; round < len(cfg.Stations); round++ {
		seen := map[string]string{}
		for teamID, route := range routes {
			if prev, clash := seen[route[round]]; clash {
				t.Fatalf("round %d: teams %s and %s share station %s", round, prev, teamID, route[round])
			}
			seen[route[round]] = teamID
		}
	}
}

func TestGenerateRoutesEmptyStations(t *testing.T) {
	routes := GenerateRoutes(nil, []Team{{ID: "team1"}})
	assert.Empty(t, routes["team1"])
}
