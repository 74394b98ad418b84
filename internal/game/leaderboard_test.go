package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamStandingsAddQuizScoreAndRank(t *testing.T) {
	cfg := fourStationConfig()
	cfg.Teams[0].Score = 10
	cfg.Teams[1].Score = 25

	subs := map[string]TeamSubmission{
		"team1": {TeamID: "team1", Score: 20, Submitted: true},
		"team2": {TeamID: "team2", Score: 99, Submitted: false}, // in progress, not counted
	}

	standings := TeamStandings(cfg, subs)
	require.Len(t, standings, 2)

	assert.Equal(t, "team1", standings[0].TeamID)
	assert.Equal(t, 30, standings[0].Total)
	assert.Equal(t, 1, standings[0].Rank)

	assert.Equal(t, "team2", standings[1].TeamID)
	assert.Equal(t, 25, standings[1].Total)
	assert.Equal(t, 0, standings[1].QuizScore)
}

func TestTeamStandingsStableOnTies(t *testing.T) {
	cfg := fourStationConfig()
	standings := TeamStandings(cfg, nil)
	require.Len(t, standings, 2)
	assert.Equal(t, "team1", standings[0].TeamID, "config order wins on equal totals")
}

func TestIndividualStandings(t *testing.T) {
	cfg := fourStationConfig()
	subs := []IndividualSubmission{
		{PlayerName: "Anna", TeamID: "team1", Score: 5},
		{PlayerName: "Bram", TeamID: "team2", Score: 12},
		{PlayerName: "Cleo", TeamID: "missing", Score: 12},
	}

	standings := IndividualStandings(cfg, subs)
	require.Len(t, standings, 3)

	assert.Equal(t, "Bram", standings[0].PlayerName)
	assert.Equal(t, "Team 2", standings[0].TeamName)
	assert.Equal(t, "Cleo", standings[1].PlayerName, "submission order wins on ties")
	assert.Empty(t, standings[1].TeamName, "unknown team leaves name blank")
	assert.Equal(t, 3, standings[2].Rank)
}
