package model

import "time"

// ScoreReason identifies why a score event was awarded
type ScoreReason string

const (
	ScoreCorrectConnect   ScoreReason = "correct_connect"
	ScoreIntercept        ScoreReason = "intercept"
	ScoreResolution       ScoreReason = "signull_resolved"
	ScoreStraggler        ScoreReason = "straggler_connect"
	ScoreLettersRemaining ScoreReason = "letters_remaining"
)

// ScoreEvent is an immutable, append-only record of a score change
type ScoreEvent struct {
	PlayerID  PlayerID
	Delta     int
	Reason    ScoreReason
	SignullID SignullID `json:",omitempty"` // empty for room-level events
	At        time.Time
}
