package model

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// CurrentSchemaVersion is the room document schema this build reads and
// writes. Readers reject any other version rather than best-effort parse.
const CurrentSchemaVersion = 1

// DirectGuessBudget is the number of direct guesses guessers share per game
const DirectGuessBudget = 3

// RoomCode is a human-typable identifier for joining rooms
type RoomCode string

// Phase represents the current phase of a room
type Phase string

const (
	PhaseLobby    Phase = "lobby"    // waiting for players, settings mutable
	PhaseSetting  Phase = "setting"  // setter choosing the secret word
	PhaseSignulls Phase = "signulls" // guessing underway
	PhaseEnded    Phase = "ended"    // game over, awaiting reset
)

// Winner identifies which side won a finished game
type Winner string

const (
	WinnerNone     Winner = ""
	WinnerSetter   Winner = "setter"
	WinnerGuessers Winner = "guessers"
)

// DirectGuessAttempt records one spend of the shared direct-guess budget
type DirectGuessAttempt struct {
	PlayerID PlayerID
	Guess    string
	Correct  bool
	At       time.Time
}

// Room is the aggregate root for a game. The authoritative store is the
// sole owner; clients only ever hold snapshots of it.
type Room struct {
	SchemaVersion int
	Version       int64 // optimistic concurrency counter, bumped on commit

	Code     RoomCode
	Phase    Phase
	Players  []Player // insertion order; turn order is computed separately
	HostID   PlayerID
	SetterID PlayerID

	SecretWord        string // normalized; empty outside a game
	RevealedCount     int
	Signulls          SignullContainer
	DirectGuessesLeft int
	DirectGuesses     []DirectGuessAttempt
	Winner            Winner

	Settings    Settings
	ScoreEvents []ScoreEvent

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetPlayer returns the player with the given id, or nil if not present
func (r *Room) GetPlayer(id PlayerID) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// Guessers returns all players with the guesser role, in insertion order
func (r *Room) Guessers() []Player {
	var guessers []Player
	for _, p := range r.Players {
		if p.Role == RoleGuesser {
			guessers = append(guessers, p)
		}
	}
	return guessers
}

// GuesserIDs returns the ids of all guessers sorted canonically (by id,
// not insertion order) so every component agrees on turn computation
func (r *Room) GuesserIDs() []PlayerID {
	var ids []PlayerID
	for _, p := range r.Players {
		if p.Role == RoleGuesser {
			ids = append(ids, p.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// WordLength returns the secret word's length in letters. RevealedCount
// counts letters, so every comparison against it must measure letters too,
// never bytes: non-strict rooms accept any unicode letters and a multibyte
// word would otherwise never fully reveal.
func (r *Room) WordLength() int {
	return utf8.RuneCountInString(r.SecretWord)
}

// HiddenLetters returns the number of secret-word letters still concealed
func (r *Room) HiddenLetters() int {
	hidden := r.WordLength() - r.RevealedCount
	if hidden < 0 {
		return 0
	}
	return hidden
}

// RevealedPrefix returns the revealed leading letters of the secret word
func (r *Room) RevealedPrefix() string {
	runes := []rune(r.SecretWord)
	revealed := r.RevealedCount
	if revealed > len(runes) {
		revealed = len(runes)
	}
	return string(runes[:revealed])
}

// RevealedMask renders the secret word with hidden letters as underscores,
// e.g. "ELEPHANT" with 3 revealed -> "ELE_____"
func (r *Room) RevealedMask() string {
	if r.SecretWord == "" {
		return ""
	}
	runes := []rune(r.SecretWord)
	revealed := r.RevealedCount
	if revealed > len(runes) {
		revealed = len(runes)
	}
	var b strings.Builder
	b.WriteString(string(runes[:revealed]))
	for i := revealed; i < len(runes); i++ {
		b.WriteByte('_')
	}
	return b.String()
}

// AddScoreEvent appends an event and applies its delta to the player's
// cumulative score
func (r *Room) AddScoreEvent(ev ScoreEvent) {
	r.ScoreEvents = append(r.ScoreEvents, ev)
	if p := r.GetPlayer(ev.PlayerID); p != nil {
		p.Score += ev.Delta
	}
}

// EventsForSignull returns the committed score events for one signull,
// in append order
func (r *Room) EventsForSignull(id SignullID) []ScoreEvent {
	var events []ScoreEvent
	for _, ev := range r.ScoreEvents {
		if ev.SignullID == id {
			events = append(events, ev)
		}
	}
	return events
}

// Clone returns a deep copy of the room via its storage encoding
func (r *Room) Clone() *Room {
	data, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	var clone Room
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil
	}
	return &clone
}
