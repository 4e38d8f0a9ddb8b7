package main

import (
	"fmt"
	"log"
	"net/http"

	"passfailbot/config"
	"passfailbot/handlers"
	"passfailbot/services"
	"passfailbot/services/game"
	"passfailbot/services/provider"

	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()

	providers := buildProviders(cfg)
	if len(providers) == 0 {
		log.Printf("[ERROR] No provider API key configured, quiz generation will fail until ANTHROPIC_API_KEY or OPENAI_API_KEY is set")
	}

	quizService := services.NewQuizService(providers)
	quizHandler := handlers.NewQuizHandler(quizService, cfg.MaxUploadBytes)

	gameService := game.NewService(quizService, cfg.StartingCoins)
	sessionHandler := handlers.NewSessionHandler(gameService, cfg.MaxUploadBytes)

	router := mux.NewRouter()

	router.Use(corsMiddleware)
	router.Use(jsonMiddleware)

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	quizHandler.RegisterRoutes(router)
	sessionHandler.RegisterRoutes(router)

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	addr := ":" + cfg.Port
	fmt.Printf("Server starting on port %s\n", cfg.Port)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// buildProviders assembles the fallback chain from whichever keys are
// configured: Anthropic first (it can read the PDF), then OpenAI.
func buildProviders(cfg *config.Config) []provider.Provider {
	var providers []provider.Provider

	if cfg.AnthropicAPIKey != "" {
		providers = append(providers, provider.NewAnthropicProvider(cfg.AnthropicAPIKey))
	}

	if cfg.OpenAIAPIKey != "" {
		openaiProvider, err := provider.NewOpenAIProvider(cfg.OpenAIAPIKey)
		if err != nil {
			log.Fatalf("Failed to initialize OpenAI provider: %v", err)
		}
		providers = append(providers, openaiProvider)
	}

	return providers
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}
