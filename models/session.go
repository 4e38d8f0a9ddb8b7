package models

// GameState is the top-level state of a play session.
type GameState string

const (
	StateConfig  GameState = "config"
	StateLoading GameState = "loading"
	StateQuiz    GameState = "quiz"
	StateResult  GameState = "result"
	StateCheated GameState = "cheated"
	StateReview  GameState = "review"
)

// Terminal reports whether the only transition left is "play again".
func (s GameState) Terminal() bool {
	return s == StateResult || s == StateCheated || s == StateReview
}

// ConfigStep is the position inside the configuration wizard.
type ConfigStep string

const (
	StepUpload   ConfigStep = "upload"
	StepStyle    ConfigStep = "style"
	StepTarget   ConfigStep = "target"
	StepBet      ConfigStep = "bet"
	StepDuration ConfigStep = "duration"
	StepConfirm  ConfigStep = "confirm"
)

type Session struct {
	ID              string     `json:"id"`
	State           GameState  `json:"state"`
	Step            ConfigStep `json:"step"`
	Coins           int        `json:"coins"`
	BetAmount       int        `json:"betAmount"`
	TargetScore     int        `json:"targetScore"`
	DurationMinutes int        `json:"durationMinutes"`
	Style           QuizStyle  `json:"style,omitempty"`
	Filename        string     `json:"filename,omitempty"`
	Topic           string     `json:"topic,omitempty"`

	Quiz            *Quiz    `json:"quiz,omitempty"`
	CurrentQuestion int      `json:"currentQuestion"`
	Answers         []string `json:"answers,omitempty"`
	TimeLeft        int      `json:"timeLeft"`

	FinalScore int    `json:"finalScore"`
	Payout     int    `json:"payout"`
	Error      string `json:"error,omitempty"`
}

// ReviewItem is one row of the read-only post-result breakdown.
type ReviewItem struct {
	Question   string `json:"question"`
	UserAnswer string `json:"userAnswer"`
	Answer     string `json:"answer"`
	Correct    bool   `json:"correct"`
}
