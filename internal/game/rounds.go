package game

import "errors"

// ErrLastRound is returned by NextRound at the final round; the state is
// left untouched and the console shows a blocking message.
var ErrLastRound = errors.New("already at the last round")

// PauseIndex is the round index reserved for the mid-game break. A zero
// PauseAfterRound falls back to the middle of the station list.
func PauseIndex(cfg Config) int {
	if cfg.PauseAfterRound > 0 {
		return cfg.PauseAfterRound
	}
	return len(cfg.Stations) / 2
}

// TotalRounds counts playing rounds plus the pause slot when one is
// configured.
func TotalRounds(cfg Config) int {
	if PauseIndex(cfg) > 0 {
		return len(cfg.Stations) + 1
	}
	return len(cfg.Stations)
}

// Start begins (or resumes after a reset) the countdown. Round 0 gets a
// fresh station duration; later rounds keep whatever time is on the clock.
func (s *State) Start(cfg Config) {
	s.IsRunning = true
	if s.CurrentRound == 0 && s.TimeRemaining == 0 {
		s.TimeRemaining = cfg.StationDuration * 60
	}
}

// Pause stops the countdown without touching the round.
func (s *State) Pause() {
	s.IsRunning = false
}

// Resume restarts a paused countdown.
func (s *State) Resume() {
	s.IsRunning = true
}

// NextRound advances to the next round and reloads the clock: the pause
// round gets the pause duration, every other round the station duration.
// The running flag is untouched so a live countdown rolls straight over.
func (s *State) NextRound(cfg Config) error {
	if s.CurrentRound >= TotalRounds(cfg)-1 {
		return ErrLastRound
	}
	s.CurrentRound++
	if s.CurrentRound == PauseIndex(cfg) {
		s.TimeRemaining = cfg.PauseDuration * 60
		s.IsPaused = true
	} else {
		s.TimeRemaining = cfg.StationDuration * 60
		s.IsPaused = false
	}
	return nil
}

// Tick takes one second off the clock. It reports whether the state
// changed; at zero the clock floors and the master decides what happens.
func (s *State) Tick() bool {
	if !s.IsRunning || s.TimeRemaining <= 0 {
		return false
	}
	s.TimeRemaining--
	return true
}

// AddTime puts extra minutes on the clock, effective immediately.
func (s *State) AddTime(minutes int) {
	s.TimeRemaining += minutes * 60
}

// ToggleTeamQuiz flips team-quiz visibility for captains.
func (s *State) ToggleTeamQuiz() {
	s.TeamQuizUnlocked = !s.TeamQuizUnlocked
}

// ToggleIndividualQuiz flips individual-quiz visibility for players.
func (s *State) ToggleIndividualQuiz() {
	s.IndividualQuizUnlocked = !s.IndividualQuizUnlocked
}

// ToggleScores flips whether player and spectator views rank and show
// scores.
func (s *State) ToggleScores() {
	s.ScoresRevealed = !s.ScoresRevealed
}

// End marks the game finished and stops the countdown.
func (s *State) End() {
	s.GameEnded = true
	s.IsRunning = false
}
