package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/signullgame/signull/internal/api/handler"
	"github.com/signullgame/signull/internal/api/middleware"
	"github.com/signullgame/signull/internal/services/auth"
	"github.com/signullgame/signull/internal/services/room"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	RoomController *room.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	roomHandler := handler.NewRoomHandler(cfg.RoomController)
	signullHandler := handler.NewSignullHandler(cfg.RoomController)
	streamHandler := handler.NewStreamHandler(cfg.RoomController)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating accounts/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Spectator routes: the view and the event stream work without a session
	spectator := api.PathPrefix("/rooms").Subrouter()
	spectator.Use(optionalAuthMiddleware)
	spectator.HandleFunc("/{code}", roomHandler.Get).Methods(http.MethodGet)
	spectator.HandleFunc("/{code}/events", streamHandler.Events).Methods(http.MethodGet)

	// Room routes (all require auth)
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(authMiddleware)
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/join", roomHandler.Join).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/players/{player_id}", roomHandler.Kick).Methods(http.MethodDelete)
	rooms.HandleFunc("/{code}/settings", roomHandler.UpdateSettings).Methods(http.MethodPatch)
	rooms.HandleFunc("/{code}/setter", roomHandler.ChangeSetter).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/start", roomHandler.Start).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/reset", roomHandler.Reset).Methods(http.MethodPost)

	// Game routes (all require auth)
	rooms.HandleFunc("/{code}/word", signullHandler.SetWord).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/signulls", signullHandler.Add).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/signulls/{signull_id}/connect", signullHandler.Connect).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/guess", signullHandler.DirectGuess).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
