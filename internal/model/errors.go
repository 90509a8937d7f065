package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Room errors
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomExists   = errors.New("room already exists")
	ErrRoomFull     = errors.New("room is full")
	ErrNotInRoom    = errors.New("player is not in room")

	// Permission errors
	ErrNotHost    = errors.New("player is not the host")
	ErrNotSetter  = errors.New("player is not the setter")
	ErrNotGuesser = errors.New("player is not a guesser")

	// Phase errors
	ErrWrongPhase          = errors.New("action not valid in current phase")
	ErrInsufficientPlayers = errors.New("insufficient players to start game")

	// Validation errors
	ErrInvalidWord     = errors.New("invalid word")
	ErrInvalidGuess    = errors.New("invalid guess")
	ErrInvalidClue     = errors.New("invalid clue")
	ErrInvalidSettings = errors.New("invalid settings")
	// ErrLegacyPercent is returned for connects-required values greater than
	// 100. Old documents encoded the threshold as a percentage; those must be
	// migrated explicitly via ConvertLegacyPercent, never coerced on read.
	ErrLegacyPercent = errors.New("connects required looks like a legacy percentage; convert explicitly")

	// Signull errors
	ErrSignullNotFound  = errors.New("signull not found")
	ErrOwnSignull       = errors.New("cannot connect to own signull")
	ErrSignullNotActive = errors.New("signull is not the active turn")
	ErrSignullFinal     = errors.New("signull already finalised")

	// Direct guess errors
	ErrNoGuessesLeft = errors.New("no direct guesses left")

	// Storage errors
	ErrConflict           = errors.New("transaction conflict: retries exhausted")
	ErrUnsupportedVersion = errors.New("unsupported room schema version")
)

// IsBenignRace reports whether err is an expected outcome of racing another
// actor to the same signull. Losing such a race is normal play, not a
// failure to surface to the user.
func IsBenignRace(err error) bool {
	return errors.Is(err, ErrSignullFinal) || errors.Is(err, ErrSignullNotActive)
}
