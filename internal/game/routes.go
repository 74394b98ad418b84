package game

// AdjustedRound maps the round counter to a route index. The pause round
// consumes a round slot but not a station slot, so every round past the
// pause shifts down by one.
func AdjustedRound(round, pauseIndex int) int {
	if round > pauseIndex {
		return round - 1
	}
	return round
}

// CurrentStation resolves which station a team should be at for the given
// round. The second return is false during the pause round, when the route
// runs out, or when the team has no route.
func CurrentStation(cfg Config, teamID string, round int) (Station, bool) {
	pauseIdx := PauseIndex(cfg)
	if round == pauseIdx {
		return Station{}, false
	}
	route := cfg.Routes[teamID]
	idx := AdjustedRound(round, pauseIdx)
	if idx < 0 || idx >= len(route) {
		return Station{}, false
	}
	return cfg.StationFor(route[idx])
}

// GenerateRoutes assigns each team a rotated copy of the station order:
// team i starts at station i, so two teams never share a station in the
// same round.
func GenerateRoutes(stations []Station, teams []Team) map[string][]string {
	ids := make([]string, len(stations))
	for i, s := range stations {
		ids[i] = s.ID
	}

	routes := make(map[string][]string, len(teams))
	for i, t := range teams {
		route := make([]string, len(ids))
		for j := range ids {
			route[j] = ids[(i+j)%len(ids)]
		}
		routes[t.ID] = route
	}
	return routes
}
