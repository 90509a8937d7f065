package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/signullgame/signull/internal/model"
	"github.com/signullgame/signull/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeNotHost             = "NOT_HOST"
	CodeNotSetter           = "NOT_SETTER"
	CodeNotGuesser          = "NOT_GUESSER"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeRoomNotFound        = "ROOM_NOT_FOUND"
	CodeRoomFull            = "ROOM_FULL"
	CodeNotInRoom           = "NOT_IN_ROOM"
	CodeWrongPhase          = "WRONG_PHASE"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeInvalidWord         = "INVALID_WORD"
	CodeInvalidGuess        = "INVALID_GUESS"
	CodeInvalidClue         = "INVALID_CLUE"
	CodeInvalidSettings     = "INVALID_SETTINGS"
	CodeLegacyPercent       = "LEGACY_PERCENT"
	CodeSignullNotFound     = "SIGNULL_NOT_FOUND"
	CodeOwnSignull          = "OWN_SIGNULL"
	CodeSignullNotActive    = "SIGNULL_NOT_ACTIVE"
	CodeSignullFinal        = "SIGNULL_FINAL"
	CodeNoGuessesLeft       = "NO_GUESSES_LEFT"
	CodeConflict            = "CONFLICT"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrNotInRoom):
		return &httpError{http.StatusNotFound, APIError{CodeNotInRoom, "Not in this room"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrNotSetter):
		return &httpError{http.StatusForbidden, APIError{CodeNotSetter, "Only the setter can perform this action"}}
	case errors.Is(err, model.ErrNotGuesser):
		return &httpError{http.StatusForbidden, APIError{CodeNotGuesser, "Only guessers can perform this action"}}
	case errors.Is(err, model.ErrWrongPhase):
		return &httpError{http.StatusConflict, APIError{CodeWrongPhase, "Action not valid in the current phase"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPlayers, "Not enough players to start"}}
	case errors.Is(err, model.ErrLegacyPercent):
		return &httpError{http.StatusBadRequest, APIError{CodeLegacyPercent, "Connects required above 100 must be converted from the legacy percentage form"}}
	case errors.Is(err, model.ErrInvalidWord):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidWord, "Invalid word"}}
	case errors.Is(err, model.ErrInvalidGuess):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidGuess, "Invalid guess"}}
	case errors.Is(err, model.ErrInvalidClue):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidClue, "Invalid clue"}}
	case errors.Is(err, model.ErrInvalidSettings):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSettings, "Invalid settings"}}
	case errors.Is(err, model.ErrSignullNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSignullNotFound, "Signull not found"}}
	case errors.Is(err, model.ErrOwnSignull):
		return &httpError{http.StatusForbidden, APIError{CodeOwnSignull, "Cannot connect to your own signull"}}
	case errors.Is(err, model.ErrSignullNotActive):
		return &httpError{http.StatusConflict, APIError{CodeSignullNotActive, "Signull is not the active turn"}}
	case errors.Is(err, model.ErrSignullFinal):
		return &httpError{http.StatusConflict, APIError{CodeSignullFinal, "Signull is already finalised"}}
	case errors.Is(err, model.ErrNoGuessesLeft):
		return &httpError{http.StatusConflict, APIError{CodeNoGuessesLeft, "No direct guesses left"}}
	case errors.Is(err, model.ErrConflict):
		return &httpError{http.StatusConflict, APIError{CodeConflict, "Too much contention, please retry"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
