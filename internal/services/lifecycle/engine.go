// Package lifecycle implements the per-signull state machine: pending
// entries race between guesser connects and the setter's intercept, and
// every transition out of pending is terminal.
package lifecycle

import (
	"time"

	"github.com/signullgame/signull/internal/model"
	"github.com/signullgame/signull/internal/validation"
)

// Outcome classifies the effect of a single connect or intercept attempt
type Outcome string

const (
	// OutcomeIncorrect is a recorded attempt that did not match
	OutcomeIncorrect Outcome = "incorrect"
	// OutcomeCorrect is a matching connect below the resolution threshold
	OutcomeCorrect Outcome = "correct"
	// OutcomeResolved is the connect that reached the threshold and
	// finalised the entry
	OutcomeResolved Outcome = "resolved"
	// OutcomeBlocked is a successful setter intercept
	OutcomeBlocked Outcome = "blocked"
	// OutcomeStraggler is a connect recorded after the entry resolved
	OutcomeStraggler Outcome = "straggler"
	// OutcomeReplay is an idempotent re-submission by a player who already
	// connected; the recorded attempt is returned unchanged
	OutcomeReplay Outcome = "replay"
)

// Result describes what an attempt did to the entry
type Result struct {
	Outcome Outcome
	Attempt model.ConnectAttempt
}

// Connect records a guesser's attempt against a pending or resolved entry.
// Each guesser gets at most one counted connect per signull; re-submissions
// return the recorded attempt so retries can never double-score. Attempts
// against resolved entries are recorded as stragglers. Blocked, failed and
// inactive entries accept nothing further.
func Connect(e *model.SignullEntry, playerID model.PlayerID, guess string, now time.Time) (Result, error) {
	if prev := e.AttemptBy(playerID); prev != nil {
		return Result{Outcome: OutcomeReplay, Attempt: *prev}, nil
	}

	switch e.Status {
	case model.SignullPending:
		// fall through to the live race below
	case model.SignullResolved:
		attempt := record(e, playerID, guess, now)
		return Result{Outcome: OutcomeStraggler, Attempt: attempt}, nil
	default:
		return Result{}, model.ErrSignullFinal
	}

	attempt := record(e, playerID, guess, now)
	if !attempt.Correct {
		return Result{Outcome: OutcomeIncorrect, Attempt: attempt}, nil
	}

	if correctConnects(e) >= e.RequiredConnects {
		finalise(e, model.SignullResolved, now)
		return Result{Outcome: OutcomeResolved, Attempt: attempt}, nil
	}
	return Result{Outcome: OutcomeCorrect, Attempt: attempt}, nil
}

// Intercept records the setter's attempt against a pending entry. It uses
// the identical comparison path as Connect; a match finalises the entry as
// blocked, preventing the reveal. There is no setter-vs-guesser priority:
// whichever transaction commits first wins the race.
func Intercept(e *model.SignullEntry, setterID model.PlayerID, guess string, now time.Time) (Result, error) {
	if e.Status != model.SignullPending {
		return Result{}, model.ErrSignullFinal
	}

	attempt := record(e, setterID, guess, now)
	if !attempt.Correct {
		return Result{Outcome: OutcomeIncorrect, Attempt: attempt}, nil
	}

	finalise(e, model.SignullBlocked, now)
	return Result{Outcome: OutcomeBlocked, Attempt: attempt}, nil
}

// Deactivate finalises a pending entry as inactive, excluding it from
// scoring. Used when the game ends with entries still pending.
func Deactivate(e *model.SignullEntry, now time.Time) {
	if e.Status != model.SignullPending {
		return
	}
	finalise(e, model.SignullInactive, now)
}

func record(e *model.SignullEntry, playerID model.PlayerID, guess string, now time.Time) model.ConnectAttempt {
	attempt := model.ConnectAttempt{
		PlayerID: playerID,
		Guess:    validation.Normalize(guess),
		Correct:  validation.Matches(e.Word, guess),
		At:       now,
	}
	e.Attempts = append(e.Attempts, attempt)
	return attempt
}

// correctConnects counts all correct attempts currently on the entry.
// Missed intercepts may be recorded here but are never correct: a correct
// setter attempt finalises the entry as blocked immediately.
func correctConnects(e *model.SignullEntry) int {
	count := 0
	for _, a := range e.Attempts {
		if a.Correct {
			count++
		}
	}
	return count
}

func finalise(e *model.SignullEntry, status model.SignullStatus, now time.Time) {
	e.Status = status
	e.Final = true
	at := now
	e.ResolvedAt = &at
}
