package game

import (
	"errors"
	"fmt"

	"passfailbot/models"

	"github.com/samber/lo"
)

// Bounds for the configuration wizard. Values match the sliders and
// duration presets of the UI: fixed-step increments only.
const (
	MinBet       = 10
	BetStep      = 10
	TargetStep   = 10
	MinTarget    = 0
	MaxTarget    = 100
	StartingBet  = 100
	DefaultGoal  = 50
	DefaultTimer = 15
)

var Durations = []int{15, 30, 45, 60}

var ErrInvalidTransition = errors.New("event not valid in current state")

// Event is something that happens to a session: a wizard input, a timer
// tick, the orchestrator resolving, or the player acting.
type Event interface {
	isEvent()
}

type ConfigureUpload struct{ Filename string }
type ConfigureStyle struct{ Style models.QuizStyle }
type ConfigureTarget struct{ Target int }
type ConfigureBet struct{ Bet int }
type ConfigureDuration struct{ Minutes int }
type StartQuiz struct{}
type QuizReady struct {
	Quiz  *models.Quiz
	Topic string
}
type QuizFailed struct{ Message string }
type SelectAnswer struct{ Option string }
type NextQuestion struct{}
type Tick struct{}
type TabHidden struct{}
type EnterReview struct{}
type PlayAgain struct{}

func (ConfigureUpload) isEvent()   {}
func (ConfigureStyle) isEvent()    {}
func (ConfigureTarget) isEvent()   {}
func (ConfigureBet) isEvent()      {}
func (ConfigureDuration) isEvent() {}
func (StartQuiz) isEvent()         {}
func (QuizReady) isEvent()         {}
func (QuizFailed) isEvent()        {}
func (SelectAnswer) isEvent()      {}
func (NextQuestion) isEvent()      {}
func (Tick) isEvent()              {}
func (TabHidden) isEvent()         {}
func (EnterReview) isEvent()       {}
func (PlayAgain) isEvent()         {}

// Transition applies one event to a session and returns the next session
// value. It is pure: no timers, no I/O, no shared state. Callers own
// serialization and timer lifecycle.
func Transition(s models.Session, ev Event) (models.Session, error) {
	switch ev := ev.(type) {
	case ConfigureUpload:
		if s.State != models.StateConfig || s.Step != models.StepUpload {
			return s, ErrInvalidTransition
		}
		if ev.Filename == "" {
			return s, fmt.Errorf("a file is required")
		}
		s.Filename = ev.Filename
		s.Step = models.StepStyle
		s.Error = ""
		return s, nil

	case ConfigureStyle:
		if s.State != models.StateConfig || s.Step != models.StepStyle {
			return s, ErrInvalidTransition
		}
		if !ev.Style.Valid() {
			return s, fmt.Errorf("style must be %q or %q", models.StyleStrict, models.StyleSimilar)
		}
		s.Style = ev.Style
		s.Step = models.StepTarget
		return s, nil

	case ConfigureTarget:
		if s.State != models.StateConfig || s.Step != models.StepTarget {
			return s, ErrInvalidTransition
		}
		if ev.Target < MinTarget || ev.Target > MaxTarget || ev.Target%TargetStep != 0 {
			return s, fmt.Errorf("target score must be between %d and %d in steps of %d", MinTarget, MaxTarget, TargetStep)
		}
		s.TargetScore = ev.Target
		s.Step = models.StepBet
		return s, nil

	case ConfigureBet:
		if s.State != models.StateConfig || s.Step != models.StepBet {
			return s, ErrInvalidTransition
		}
		if ev.Bet < MinBet || ev.Bet > s.Coins || ev.Bet%BetStep != 0 {
			return s, fmt.Errorf("bet must be between %d and your balance of %d in steps of %d", MinBet, s.Coins, BetStep)
		}
		s.BetAmount = ev.Bet
		s.Step = models.StepDuration
		return s, nil

	case ConfigureDuration:
		if s.State != models.StateConfig || s.Step != models.StepDuration {
			return s, ErrInvalidTransition
		}
		if !lo.Contains(Durations, ev.Minutes) {
			return s, fmt.Errorf("duration must be one of %v minutes", Durations)
		}
		s.DurationMinutes = ev.Minutes
		s.Step = models.StepConfirm
		return s, nil

	case StartQuiz:
		if s.State != models.StateConfig || s.Step != models.StepConfirm {
			return s, ErrInvalidTransition
		}
		if s.Coins < s.BetAmount {
			return s, fmt.Errorf("you don't have enough coins to make this bet")
		}
		// Optimistic debit, refunded by QuizFailed.
		s.Coins -= s.BetAmount
		s.State = models.StateLoading
		s.Error = ""
		return s, nil

	case QuizReady:
		if s.State != models.StateLoading {
			return s, ErrInvalidTransition
		}
		s.Quiz = ev.Quiz
		s.Topic = ev.Topic
		s.Answers = make([]string, len(ev.Quiz.Questions))
		s.CurrentQuestion = 0
		s.TimeLeft = s.DurationMinutes * 60
		s.State = models.StateQuiz
		return s, nil

	case QuizFailed:
		if s.State != models.StateLoading {
			return s, ErrInvalidTransition
		}
		s.Coins += s.BetAmount // refund
		s.Error = ev.Message
		s.State = models.StateConfig
		return s, nil

	case SelectAnswer:
		if s.State != models.StateQuiz {
			return s, ErrInvalidTransition
		}
		question := s.Quiz.Questions[s.CurrentQuestion]
		if !lo.Contains(question.Options, ev.Option) {
			return s, fmt.Errorf("answer is not one of the options")
		}
		answers := make([]string, len(s.Answers))
		copy(answers, s.Answers)
		answers[s.CurrentQuestion] = ev.Option
		s.Answers = answers
		return s, nil

	case NextQuestion:
		if s.State != models.StateQuiz {
			return s, ErrInvalidTransition
		}
		if s.Answers[s.CurrentQuestion] == "" {
			return s, fmt.Errorf("answer the current question first")
		}
		if s.CurrentQuestion < len(s.Quiz.Questions)-1 {
			s.CurrentQuestion++
			return s, nil
		}
		return finish(s), nil

	case Tick:
		if s.State != models.StateQuiz {
			return s, ErrInvalidTransition
		}
		s.TimeLeft--
		if s.TimeLeft <= 0 {
			s.TimeLeft = 0
			return finish(s), nil
		}
		return s, nil

	case TabHidden:
		if s.State != models.StateQuiz {
			return s, ErrInvalidTransition
		}
		// Unconditional forfeit: the bet is already deducted and no score
		// is computed.
		s.State = models.StateCheated
		s.Payout = 0
		return s, nil

	case EnterReview:
		if s.State != models.StateResult {
			return s, ErrInvalidTransition
		}
		s.State = models.StateReview
		return s, nil

	case PlayAgain:
		if !s.State.Terminal() {
			return s, ErrInvalidTransition
		}
		s.State = models.StateConfig
		s.Step = models.StepUpload
		s.Quiz = nil
		s.Answers = nil
		s.CurrentQuestion = 0
		s.TimeLeft = 0
		s.FinalScore = 0
		s.Payout = 0
		s.Filename = ""
		s.Topic = ""
		s.Style = ""
		s.Error = ""
		return s, nil

	default:
		return s, fmt.Errorf("unknown event %T", ev)
	}
}

// finish scores the quiz and settles the wager. Reached both by advancing
// past the last question and by the timer hitting zero.
func finish(s models.Session) models.Session {
	s.FinalScore = Score(s.Quiz, s.Answers)
	if Won(s.FinalScore, s.TargetScore) {
		s.Payout = Payout(s.BetAmount, s.TargetScore)
		s.Coins += s.Payout
	} else {
		s.Payout = 0
	}
	s.State = models.StateResult
	return s
}
