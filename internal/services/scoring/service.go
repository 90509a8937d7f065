// Package scoring turns committed signull transitions into auditable score
// events. Deltas are fully determined by an entry's terminal state, so
// recomputing from a persisted entry reproduces identical events - a
// requirement for deferred score playback.
package scoring

import (
	"time"

	"github.com/signullgame/signull/internal/model"
)

// Fixed award amounts
const (
	ConnectPoints      = 10 // guesser lands a correct connect
	InterceptPoints    = 25 // setter blocks a signull
	ResolutionPoints   = 15 // creator's signull reaches the threshold
	StragglerPoints    = 2  // connect submitted after resolution
	HiddenLetterPoints = 5  // per hidden letter, to the setter at game end
)

// Service derives score events from committed transitions. It is pure: no
// storage, no clock of its own.
type Service struct{}

// New creates a new scoring service
func New() *Service {
	return &Service{}
}

// ConnectEvent awards a guesser for a correct connect
func (s *Service) ConnectEvent(playerID model.PlayerID, signullID model.SignullID, at time.Time) model.ScoreEvent {
	return model.ScoreEvent{
		PlayerID:  playerID,
		Delta:     ConnectPoints,
		Reason:    model.ScoreCorrectConnect,
		SignullID: signullID,
		At:        at,
	}
}

// StragglerEvent awards a guesser whose connect arrived after resolution
func (s *Service) StragglerEvent(playerID model.PlayerID, signullID model.SignullID, at time.Time) model.ScoreEvent {
	return model.ScoreEvent{
		PlayerID:  playerID,
		Delta:     StragglerPoints,
		Reason:    model.ScoreStraggler,
		SignullID: signullID,
		At:        at,
	}
}

// ResolutionEvent awards a creator whose signull resolved
func (s *Service) ResolutionEvent(creatorID model.PlayerID, signullID model.SignullID, at time.Time) model.ScoreEvent {
	return model.ScoreEvent{
		PlayerID:  creatorID,
		Delta:     ResolutionPoints,
		Reason:    model.ScoreResolution,
		SignullID: signullID,
		At:        at,
	}
}

// InterceptEvent awards the setter for blocking a signull
func (s *Service) InterceptEvent(setterID model.PlayerID, signullID model.SignullID, at time.Time) model.ScoreEvent {
	return model.ScoreEvent{
		PlayerID:  setterID,
		Delta:     InterceptPoints,
		Reason:    model.ScoreIntercept,
		SignullID: signullID,
		At:        at,
	}
}

// LettersRemainingEvent awards the setter for letters still hidden when the
// game ends
func (s *Service) LettersRemainingEvent(setterID model.PlayerID, hiddenLetters int, at time.Time) model.ScoreEvent {
	return model.ScoreEvent{
		PlayerID: setterID,
		Delta:    hiddenLetters * HiddenLetterPoints,
		Reason:   model.ScoreLettersRemaining,
		At:       at,
	}
}

// EventsForEntry recomputes the full event list for a signull from its
// persisted state, in the order the events were originally committed.
// Incorrect attempts before resolution earn nothing; every attempt after
// resolution is a straggler regardless of correctness; failed and inactive
// entries yield no events at all.
func (s *Service) EventsForEntry(e *model.SignullEntry, setterID model.PlayerID) []model.ScoreEvent {
	if e.Status == model.SignullFailed || e.Status == model.SignullInactive {
		return nil
	}

	var events []model.ScoreEvent
	counted := 0
	resolved := false

	for _, a := range e.Attempts {
		if a.PlayerID == setterID {
			if a.Correct && e.Status == model.SignullBlocked {
				events = append(events, s.InterceptEvent(setterID, e.ID, a.At))
			}
			continue
		}

		if resolved {
			events = append(events, s.StragglerEvent(a.PlayerID, e.ID, a.At))
			continue
		}
		if !a.Correct {
			continue
		}

		events = append(events, s.ConnectEvent(a.PlayerID, e.ID, a.At))
		counted++
		if counted >= e.RequiredConnects && e.Status == model.SignullResolved {
			events = append(events, s.ResolutionEvent(e.CreatorID, e.ID, a.At))
			resolved = true
		}
	}

	return events
}

// TotalsByPlayer folds a list of events into cumulative deltas per player
func (s *Service) TotalsByPlayer(events []model.ScoreEvent) map[model.PlayerID]int {
	totals := make(map[model.PlayerID]int)
	for _, ev := range events {
		totals[ev.PlayerID] += ev.Delta
	}
	return totals
}
