package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"passfailbot/models"
	"passfailbot/services/game"

	"github.com/gorilla/mux"
)

type SessionHandler struct {
	service        *game.Service
	maxUploadBytes int64
}

type ConfigRequest struct {
	Step     string `json:"step"`
	Filename string `json:"filename,omitempty"`
	Style    string `json:"style,omitempty"`
	Target   int    `json:"target,omitempty"`
	Bet      int    `json:"bet,omitempty"`
	Duration int    `json:"duration,omitempty"`
}

type AnswerRequest struct {
	Option string `json:"option"`
}

type VisibilityRequest struct {
	Hidden bool `json:"hidden"`
}

type ReviewResponse struct {
	Session models.Session      `json:"session"`
	Items   []models.ReviewItem `json:"items"`
}

func NewSessionHandler(service *game.Service, maxUploadBytes int64) *SessionHandler {
	return &SessionHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *SessionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/sessions", h.CreateSession).Methods("POST")
	router.HandleFunc("/api/sessions/{id}", h.GetSession).Methods("GET")
	router.HandleFunc("/api/sessions/{id}/config", h.Configure).Methods("POST")
	router.HandleFunc("/api/sessions/{id}/start", h.Start).Methods("POST")
	router.HandleFunc("/api/sessions/{id}/answer", h.Answer).Methods("POST")
	router.HandleFunc("/api/sessions/{id}/next", h.Next).Methods("POST")
	router.HandleFunc("/api/sessions/{id}/visibility", h.Visibility).Methods("POST")
	router.HandleFunc("/api/sessions/{id}/review", h.Review).Methods("GET")
	router.HandleFunc("/api/sessions/{id}/reset", h.Reset).Methods("POST")
}

func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.service.Create()
	h.writeJSONResponse(w, http.StatusCreated, session)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Get(mux.Vars(r)["id"])
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, session)
}

func (h *SessionHandler) Configure(w http.ResponseWriter, r *http.Request) {
	var req ConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode config request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	ev, err := configEvent(req)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.service.Apply(mux.Vars(r)["id"], ev)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, session)
}

func configEvent(req ConfigRequest) (game.Event, error) {
	switch models.ConfigStep(req.Step) {
	case models.StepUpload:
		return game.ConfigureUpload{Filename: req.Filename}, nil
	case models.StepStyle:
		return game.ConfigureStyle{Style: models.QuizStyle(req.Style)}, nil
	case models.StepTarget:
		return game.ConfigureTarget{Target: req.Target}, nil
	case models.StepBet:
		return game.ConfigureBet{Bet: req.Bet}, nil
	case models.StepDuration:
		return game.ConfigureDuration{Minutes: req.Duration}, nil
	default:
		return nil, errors.New("unknown config step")
	}
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	doc, status, msg := readUpload(w, r, h.maxUploadBytes)
	if status != http.StatusOK {
		h.writeErrorResponse(w, status, msg)
		return
	}

	session, err := h.service.Start(r.Context(), mux.Vars(r)["id"], doc.Data)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, session)
}

func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	h.apply(w, r, game.SelectAnswer{Option: req.Option})
}

func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, game.NextQuestion{})
}

func (h *SessionHandler) Visibility(w http.ResponseWriter, r *http.Request) {
	var req VisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if !req.Hidden {
		// Only losing foreground visibility matters.
		session, err := h.service.Get(mux.Vars(r)["id"])
		if err != nil {
			h.writeSessionError(w, err)
			return
		}
		h.writeJSONResponse(w, http.StatusOK, session)
		return
	}

	h.apply(w, r, game.TabHidden{})
}

func (h *SessionHandler) Review(w http.ResponseWriter, r *http.Request) {
	session, items, err := h.service.ReviewSession(mux.Vars(r)["id"])
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, ReviewResponse{Session: session, Items: items})
}

func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, game.PlayAgain{})
}

func (h *SessionHandler) apply(w http.ResponseWriter, r *http.Request, ev game.Event) {
	session, err := h.service.Apply(mux.Vars(r)["id"], ev)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, session)
}

func (h *SessionHandler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		h.writeErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrInvalidTransition):
		h.writeErrorResponse(w, http.StatusConflict, err.Error())
	default:
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
	}
}

func (h *SessionHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *SessionHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
