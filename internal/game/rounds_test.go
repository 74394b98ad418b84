package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourStationConfig() Config {
	return Config{
		GameName:        "Test Event",
		NumStations:     4,
		NumTeams:        2,
		StationDuration: 15,
		PauseDuration:   5,
		PauseAfterRound: 2,
		Stations: []Station{
			{ID: "1", Name: "Station 1", Type: StationManned},
			{ID: "2", Name: "Station 2", Type: StationTask, TaskAnswer: "42"},
			{ID: "3", Name: "Station 3", Type: StationManned},
			{ID: "4", Name: "Station 4", Type: StationTask},
		},
		Teams: []Team{
			{ID: "team1", Name: "Team 1", Color: "#ff0000"},
			{ID: "team2", Name: "Team 2", Color: "#0000ff"},
		},
		Routes: map[string][]string{
			"team1": {"1", "2", "3", "4"},
			"team2": {"2", "3", "4", "1"},
		},
	}
}

func TestPauseIndexDefaultsToMiddle(t *testing.T) {
	cfg := fourStationConfig()
	assert.Equal(t, 2, PauseIndex(cfg))

	cfg.PauseAfterRound = 0
	assert.Equal(t, 2, PauseIndex(cfg), "zero falls back to len(stations)/2")

	cfg.PauseAfterRound = 3
	assert.Equal(t, 3, PauseIndex(cfg))
}

func TestTotalRoundsIncludesPauseSlot(t *testing.T) {
	cfg := fourStationConfig()
	assert.Equal(t, 5, TotalRounds(cfg))
}

func TestStartSetsStationDuration(t *testing.T) {
	cfg := fourStationConfig()
	var s State

	s.Start(cfg)
	assert.True(t, s.IsRunning)
	assert.Equal(t, 15*60, s.TimeRemaining)
}

func TestStartAfterPauseKeepsClock(t *testing.T) {
	cfg := fourStationConfig()
	s := State{CurrentRound: 1, TimeRemaining: 123}

	s.Start(cfg)
	assert.True(t, s.IsRunning)
	assert.Equal(t, 123, s.TimeRemaining, "resume must not reset the clock")
}

func TestNextRoundEntersAndLeavesPause(t *testing.T) {
	cfg := fourStationConfig()
	s := State{IsRunning: true, CurrentRound: 1, TimeRemaining: 7}

	// Round 1 -> 2 hits the configured pause index.
	require.NoError(t, s.NextRound(cfg))
	assert.Equal(t, 2, s.CurrentRound)
	assert.True(t, s.IsPaused)
	assert.Equal(t, 5*60, s.TimeRemaining, "pause round uses the pause duration")
	assert.True(t, s.IsRunning, "advancing does not stop the countdown")

	// Round 2 -> 3 resumes station play.
	require.NoError(t, s.NextRound(cfg))
	assert.Equal(t, 3, s.CurrentRound)
	assert.False(t, s.IsPaused)
	assert.Equal(t, 15*60, s.TimeRemaining, "after the pause the station duration returns")
}

func TestNextRoundRejectsAtLastRound(t *testing.T) {
	cfg := fourStationConfig()
	s := State{CurrentRound: TotalRounds(cfg) - 1, TimeRemaining: 42, IsPaused: false}
	before := s

	err := s.NextRound(cfg)
	require.ErrorIs(t, err, ErrLastRound)
	assert.Equal(t, before, s, "a rejected transition leaves state unchanged")
}

func TestTickCountsDownAndFloorsAtZero(t *testing.T) {
	s := State{IsRunning: true, TimeRemaining: 2}

	assert.True(t, s.Tick())
	assert.Equal(t, 1, s.TimeRemaining)
	assert.True(t, s.Tick())
	assert.Equal(t, 0, s.TimeRemaining)
	assert.False(t, s.Tick(), "clock floors at zero")
	assert.Equal(t, 0, s.TimeRemaining)
	assert.True(t, s.IsRunning, "hitting zero leaves the running flag to the master")
}

func TestTickIgnoredWhileStopped(t *testing.T) {
	s := State{IsRunning: false, TimeRemaining: 10}
	assert.False(t, s.Tick())
	assert.Equal(t, 10, s.TimeRemaining)
}

func TestAddTimeHasNoUpperBound(t *testing.T) {
	s := State{TimeRemaining: 30}
	s.AddTime(5)
	assert.Equal(t, 330, s.TimeRemaining)
	s.AddTime(1000)
	assert.Equal(t, 60330, s.TimeRemaining)
}

func TestToggles(t *testing.T) {
	var s State

	s.ToggleTeamQuiz()
	s.ToggleIndividualQuiz()
	s.ToggleScores()
	assert.True(t, s.TeamQuizUnlocked)
	assert.True(t, s.IndividualQuizUnlocked)
	assert.True(t, s.ScoresRevealed)

	s.ToggleTeamQuiz()
	assert.False(t, s.TeamQuizUnlocked)
}

func TestEndStopsGame(t *testing.T) {
	s := State{IsRunning: true}
	s.End()
	assert.True(t, s.GameEnded)
	assert.False(t, s.IsRunning)
}
