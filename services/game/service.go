package game

import (
	"context"
	"errors"
	"log"
	"time"

	"passfailbot/models"
	"passfailbot/services"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Service drives sessions through the state machine. The pure transitions
// live in Transition; this layer owns the store, the per-session countdown
// ticker and the orchestrator call that backs the loading state.
type Service struct {
	quizService   *services.QuizService
	store         *Store
	startingCoins int
}

func NewService(quizService *services.QuizService, startingCoins int) *Service {
	return &Service{
		quizService:   quizService,
		store:         NewStore(),
		startingCoins: startingCoins,
	}
}

func (s *Service) Create() models.Session {
	session := models.Session{
		ID:              uuid.NewString(),
		State:           models.StateConfig,
		Step:            models.StepUpload,
		Coins:           s.startingCoins,
		BetAmount:       StartingBet,
		TargetScore:     DefaultGoal,
		DurationMinutes: DefaultTimer,
	}

	s.store.Set(session.ID, &entry{session: session})
	log.Printf("[INFO] Created session %s with %d coins", session.ID, session.Coins)
	return session
}

func (s *Service) Get(id string) (models.Session, error) {
	e, exists := s.store.Get(id)
	if !exists {
		return models.Session{}, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session, nil
}

// Apply runs one event against a session under its lock. Whenever the
// session leaves the quiz state the countdown is cancelled before the
// method returns, so no stray tick can score a stale session.
func (s *Service) Apply(id string, ev Event) (models.Session, error) {
	e, exists := s.store.Get(id)
	if !exists {
		return models.Session{}, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Cheat detection cancels the ticker before transitioning so the two
	// can never race.
	if _, hidden := ev.(TabHidden); hidden {
		e.cancelTimerLocked()
	}

	next, err := Transition(e.session, ev)
	if err != nil {
		return e.session, err
	}
	e.session = next

	if e.session.State != models.StateQuiz {
		e.cancelTimerLocked()
	}
	return e.session, nil
}

// Start moves a confirmed session into loading (debiting the wager), runs
// the quiz orchestrator, and resolves to quiz or back to config. A session
// that left loading while the call was in flight ignores the resolution.
func (s *Service) Start(ctx context.Context, id string, data []byte) (models.Session, error) {
	e, exists := s.store.Get(id)
	if !exists {
		return models.Session{}, ErrSessionNotFound
	}

	e.mu.Lock()
	next, err := Transition(e.session, StartQuiz{})
	if err != nil {
		current := e.session
		e.mu.Unlock()
		return current, err
	}
	e.session = next
	doc := models.Document{Filename: next.Filename, Data: data}
	style := next.Style
	e.mu.Unlock()

	quiz, fallback, genErr := s.quizService.GenerateQuiz(ctx, doc, style)

	var topic string
	if quiz != nil {
		topic = s.quizService.IdentifyTopic(ctx, doc)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if quiz == nil {
		next, err := Transition(e.session, QuizFailed{Message: services.ErrorMessage(genErr)})
		if err != nil {
			// Session already moved on; late failure is ignored.
			return e.session, nil
		}
		e.session = next
		return e.session, nil
	}

	if fallback {
		log.Printf("[INFO] Session %s proceeds on the fallback quiz: %v", id, genErr)
	}

	next, err = Transition(e.session, QuizReady{Quiz: quiz, Topic: topic})
	if err != nil {
		// Session already moved on; late resolution is ignored.
		return e.session, nil
	}
	e.session = next
	s.startTimerLocked(e, id)
	return e.session, nil
}

// ReviewSession transitions result -> review and returns the breakdown.
func (s *Service) ReviewSession(id string) (models.Session, []models.ReviewItem, error) {
	session, err := s.Apply(id, EnterReview{})
	if err != nil && !alreadyReviewing(session, err) {
		return session, nil, err
	}
	return session, Review(session.Quiz, session.Answers), nil
}

func alreadyReviewing(session models.Session, err error) bool {
	return errors.Is(err, ErrInvalidTransition) && session.State == models.StateReview
}

// startTimerLocked launches the 1-second countdown. Callers hold e.mu.
func (s *Service) startTimerLocked(e *entry, id string) {
	e.cancelTimerLocked()
	stop := make(chan struct{})
	e.stopTimer = stop

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.tick(id)
			}
		}
	}()
}

func (s *Service) tick(id string) {
	e, exists := s.store.Get(id)
	if !exists {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.State != models.StateQuiz {
		e.cancelTimerLocked()
		return
	}

	next, err := Transition(e.session, Tick{})
	if err != nil {
		e.cancelTimerLocked()
		return
	}
	e.session = next

	if e.session.State != models.StateQuiz {
		log.Printf("[INFO] Session %s timer expired, scored %d%%", id, e.session.FinalScore)
		e.cancelTimerLocked()
	}
}
