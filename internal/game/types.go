// Package game holds the Fun Loving Detectives domain model and the pure
// rules that every view of a running event agrees on: round progression,
// route/station lookup, and quiz scoring.
package game

// Branding is the per-game look-and-feel blob, stored verbatim as JSON.
type Branding struct {
	LogoURL        string `json:"logoUrl"`
	CompanyName    string `json:"companyName"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	HeaderFont     string `json:"headerFont"`
	BodyFont       string `json:"bodyFont"`
	CustomFontURL  string `json:"customFontUrl"`
	CustomFontName string `json:"customFontName"`
}

// Station types.
const (
	StationManned = "manned"
	StationTask   = "task"
)

// Station is a physical checkpoint teams visit during a round.
type Station struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	TaskAnswer string `json:"taskAnswer,omitempty"`
	Location   string `json:"location,omitempty"`
	MapURL     string `json:"mapUrl,omitempty"`
}

// Team is one competing group. Score is the cumulative base score awarded
// at stations; quiz points live in the submissions.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Captain string   `json:"captain"`
	Members []string `json:"members"`
	Color   string   `json:"color"`
	Score   int      `json:"score"`
}

// Question types.
const (
	QuestionOpen           = "open"
	QuestionMultipleChoice = "multiple-choice"
)

// QuizQuestion belongs to either the team quiz or the individual quiz.
type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Type          string   `json:"type"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	Points        int      `json:"points"`
}

// Config is the nested configuration blob of a game. Routes maps team ID to
// the ordered list of station IDs that team visits, one per playing round.
type Config struct {
	GameName        string              `json:"gameName"`
	NumStations     int                 `json:"numStations"`
	NumTeams        int                 `json:"numTeams"`
	StationDuration int                 `json:"stationDuration"` // minutes
	PauseDuration   int                 `json:"pauseDuration"`   // minutes
	PauseAfterRound int                 `json:"pauseAfterRound"`
	Stations        []Station           `json:"stations"`
	Teams           []Team              `json:"teams"`
	Routes          map[string][]string `json:"routes"`
}

// DefaultConfig mirrors what the console starts a fresh game with.
func DefaultConfig(name string) Config {
	return Config{
		GameName:        name,
		NumTeams:        2,
		StationDuration: 15,
		PauseDuration:   5,
		PauseAfterRound: 1,
		Stations:        []Station{},
		Teams:           []Team{},
		Routes:          map[string][]string{},
	}
}

// DefaultBranding is used until the master saves a branded theme.
func DefaultBranding() Branding {
	return Branding{
		CompanyName:    "Fun Loving Detectives",
		PrimaryColor:   "#fbbf24",
		SecondaryColor: "#000000",
		HeaderFont:     "Arial Black, sans-serif",
		BodyFont:       "Arial, sans-serif",
	}
}

// TeamFor returns the team with the given ID.
func (c Config) TeamFor(teamID string) (Team, bool) {
	for _, t := range c.Teams {
		if t.ID == teamID {
			return t, true
		}
	}
	return Team{}, false
}

// StationFor returns the station with the given ID.
func (c Config) StationFor(stationID string) (Station, bool) {
	for _, s := range c.Stations {
		if s.ID == stationID {
			return s, true
		}
	}
	return Station{}, false
}

// State is the per-game singleton replicated to every connected client.
// Mutated exclusively through the session; everyone else reads snapshots.
type State struct {
	IsRunning              bool   `json:"isRunning"`
	CurrentRound           int    `json:"currentRound"`
	IsPaused               bool   `json:"isPaused"`
	TimeRemaining          int    `json:"timeRemaining"` // whole seconds
	TeamQuizUnlocked       bool   `json:"teamQuizUnlocked"`
	IndividualQuizUnlocked bool   `json:"individualQuizUnlocked"`
	ScoresRevealed         bool   `json:"scoresRevealed"`
	GameEnded              bool   `json:"gameEnded"`
	PauseVideoURL          string `json:"pauseVideoUrl,omitempty"`
}

// TeamSubmission is the single team-quiz answer set per (game, team).
type TeamSubmission struct {
	TeamID      string   `json:"teamId"`
	Answers     []string `json:"answers"`
	Score       int      `json:"score"`
	Submitted   bool     `json:"submitted"`
	SubmittedAt string   `json:"submittedAt,omitempty"`
}

// IndividualSubmission is one player's individual-quiz answer set.
type IndividualSubmission struct {
	ID          string   `json:"id"`
	TeamID      string   `json:"teamId"`
	PlayerName  string   `json:"playerName"`
	Answers     []string `json:"answers"`
	Score       int      `json:"score"`
	SubmittedAt string   `json:"submittedAt,omitempty"`
}
