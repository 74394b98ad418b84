package game

import "sort"

// TeamStanding is one scoreboard row: base station score plus the team
// quiz score.
type TeamStanding struct {
	Rank      int    `json:"rank"`
	TeamID    string `json:"teamId"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	BaseScore int    `json:"baseScore"`
	QuizScore int    `json:"quizScore"`
	Total     int    `json:"total"`
}

// IndividualStanding is one row of the individual leaderboard.
type IndividualStanding struct {
	Rank       int    `json:"rank"`
	PlayerName string `json:"playerName"`
	TeamID     string `json:"teamId"`
	TeamName   string `json:"teamName"`
	TeamColor  string `json:"teamColor"`
	Score      int    `json:"score"`
}

// TeamStandings ranks every configured team by base score plus submitted
// quiz score, highest first. Sort is stable so equal totals keep config
// order.
func TeamStandings(cfg Config, subs map[string]TeamSubmission) []TeamStanding {
	standings := make([]TeamStanding, 0, len(cfg.Teams))
	for _, t := range cfg.Teams {
		quiz := 0
		if sub, ok := subs[t.ID]; ok && sub.Submitted {
			quiz = sub.Score
		}
		standings = append(standings, TeamStanding{
			TeamID:    t.ID,
			Name:      t.Name,
			Color:     t.Color,
			BaseScore: t.Score,
			QuizScore: quiz,
			Total:     t.Score + quiz,
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Total > standings[j].Total
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

// IndividualStandings ranks individual submissions by score, highest
// first, keeping submission order on ties.
func IndividualStandings(cfg Config, subs []IndividualSubmission) []IndividualStanding {
	standings := make([]IndividualStanding, 0, len(subs))
	for _, sub := range subs {
		row := IndividualStanding{
			PlayerName: sub.PlayerName,
			TeamID:     sub.TeamID,
			Score:      sub.Score,
		}
		if t, ok := cfg.TeamFor(sub.TeamID); ok {
			row.TeamName = t.Name
			row.TeamColor = t.Color
		}
		standings = append(standings, row)
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}
