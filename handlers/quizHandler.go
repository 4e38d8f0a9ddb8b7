package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"passfailbot/models"
	"passfailbot/services"
	"passfailbot/services/provider"

	"github.com/gorilla/mux"
)

type QuizHandler struct {
	service        *services.QuizService
	maxUploadBytes int64
}

func NewQuizHandler(service *services.QuizService, maxUploadBytes int64) *QuizHandler {
	return &QuizHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *QuizHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/generate-quiz", h.GenerateQuiz).Methods("POST")
	router.HandleFunc("/api/identify-topic", h.IdentifyTopic).Methods("POST")
	router.HandleFunc("/api/test-api", h.TestAPI).Methods("GET")
}

func (h *QuizHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received quiz generation request")

	doc, status, msg := readUpload(w, r, h.maxUploadBytes)
	if status != http.StatusOK {
		h.writeErrorResponse(w, status, msg)
		return
	}

	style := models.QuizStyle(r.FormValue("style"))
	if !style.Valid() {
		log.Printf("[ERROR] Missing or invalid style: %q", style)
		h.writeErrorResponse(w, http.StatusBadRequest, "Missing or invalid style. Use 'strict' or 'similar'.")
		return
	}

	quiz, fallback, err := h.service.GenerateQuiz(r.Context(), doc, style)
	if errors.Is(err, provider.ErrNotConfigured) {
		h.writeErrorResponse(w, http.StatusInternalServerError, services.ErrorMessage(err))
		return
	}

	if fallback {
		log.Printf("[INFO] Returning fallback quiz for %s", doc.Filename)
		h.writeJSONResponse(w, http.StatusOK, models.GenerateQuizResponse{
			Fallback: true,
			Error:    services.ErrorMessage(err),
			Quiz:     quiz,
		})
		return
	}

	log.Printf("[INFO] Quiz generation completed successfully")
	h.writeJSONResponse(w, http.StatusOK, models.GenerateQuizResponse{Questions: quiz.Questions})
}

func (h *QuizHandler) IdentifyTopic(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received topic identification request")

	doc, status, msg := readUpload(w, r, h.maxUploadBytes)
	if status != http.StatusOK {
		h.writeErrorResponse(w, status, msg)
		return
	}

	topic := h.service.IdentifyTopic(r.Context(), doc)
	h.writeJSONResponse(w, http.StatusOK, models.IdentifyTopicResponse{Topic: topic})
}

func (h *QuizHandler) TestAPI(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.TestAPI(r.Context())
	if err != nil {
		h.writeJSONResponse(w, statusForProviderError(err), result)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, result)
}

// statusForProviderError maps the provider error taxonomy onto HTTP
// statuses for the diagnostic endpoint.
func statusForProviderError(err error) int {
	switch {
	case errors.Is(err, provider.ErrNotConfigured):
		return http.StatusInternalServerError
	case errors.Is(err, provider.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, provider.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, provider.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// Slack on top of the file ceiling for multipart framing.
const multipartOverhead = 10 << 10

// readUpload parses the multipart form and enforces the size ceiling
// before any provider is involved. A non-200 status means reject. The
// request body is capped so an oversized upload is cut off mid-stream
// instead of being read whole.
func readUpload(w http.ResponseWriter, r *http.Request, maxUploadBytes int64) (models.Document, int, string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+multipartOverhead)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			log.Printf("[ERROR] Upload body exceeds ceiling of %d bytes", maxUploadBytes)
			return models.Document{}, http.StatusRequestEntityTooLarge, "File is larger than the upload limit. Upload a smaller file."
		}
		log.Printf("[ERROR] Failed to parse multipart form: %v", err)
		return models.Document{}, http.StatusBadRequest, "No file uploaded."
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Printf("[ERROR] Missing file field: %v", err)
		return models.Document{}, http.StatusBadRequest, "No file uploaded."
	}
	defer file.Close()

	if header.Size == 0 {
		return models.Document{}, http.StatusBadRequest, "No file uploaded."
	}
	if header.Size > maxUploadBytes {
		log.Printf("[ERROR] Upload of %d bytes exceeds ceiling of %d", header.Size, maxUploadBytes)
		return models.Document{}, http.StatusRequestEntityTooLarge, "File is larger than the upload limit. Upload a smaller file."
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("[ERROR] Failed to read upload: %v", err)
		return models.Document{}, http.StatusBadRequest, "Failed to read uploaded file."
	}

	return models.Document{Filename: header.Filename, Data: data}, http.StatusOK, ""
}

func (h *QuizHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *QuizHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
