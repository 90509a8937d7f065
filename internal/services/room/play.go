package room

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/signullgame/signull/internal/model"
	"github.com/signullgame/signull/internal/scheduler"
	"github.com/signullgame/signull/internal/services/lifecycle"
	"github.com/signullgame/signull/internal/validation"
)

// SetSecretWord fixes the secret word and opens the guessing phase. All
// per-game state is reset: reveals, signulls, the direct-guess budget and
// the score event log.
func (c *Controller) SetSecretWord(ctx context.Context, code model.RoomCode, setterID model.PlayerID, word string) (*model.Room, error) {
	return c.mutate(ctx, code, func(r *model.Room) error {
		if r.SetterID != setterID {
			return model.ErrNotSetter
		}
		if r.Phase != model.PhaseSetting {
			return model.ErrWrongPhase
		}
		if err := validation.Word(word, r.Settings.StrictWords); err != nil {
			return err
		}

		r.SecretWord = validation.Normalize(word)
		r.RevealedCount = 0
		r.Signulls = model.NewSignullContainer()
		r.DirectGuessesLeft = model.DirectGuessBudget
		r.DirectGuesses = nil
		r.Winner = model.WinnerNone
		r.ScoreEvents = nil
		r.Phase = model.PhaseSignulls
		r.UpdatedAt = c.clock.Now()

		c.logger.Info("secret word set",
			slog.String("room", string(r.Code)),
			slog.Int("word_length", r.WordLength()),
		)
		return nil
	})
}

// AddSignull posts a clue entry. The resolution threshold is clamped against
// the guessers eligible right now and snapshotted onto the entry; later
// membership changes never move it.
func (c *Controller) AddSignull(ctx context.Context, code model.RoomCode, creatorID model.PlayerID, word, clue string) (*model.SignullEntry, *model.Room, error) {
	var created *model.SignullEntry
	updated, err := c.mutate(ctx, code, func(r *model.Room) error {
		player := r.GetPlayer(creatorID)
		if player == nil {
			return model.ErrNotInRoom
		}
		if player.Role != model.RoleGuesser {
			return model.ErrNotGuesser
		}
		if r.Phase != model.PhaseSignulls {
			return model.ErrWrongPhase
		}
		if err := validation.Word(word, r.Settings.StrictWords); err != nil {
			return err
		}
		if err := validation.Clue(clue); err != nil {
			return err
		}

		normalized := validation.Normalize(word)
		if r.Settings.PrefixMode {
			prefix := r.RevealedPrefix()
			if !strings.HasPrefix(normalized, prefix) {
				return model.ErrInvalidWord
			}
		}

		now := c.clock.Now()
		entry := &model.SignullEntry{
			ID:               model.SignullID(uuid.NewString()),
			CreatorID:        creatorID,
			Word:             normalized,
			Clue:             strings.TrimSpace(clue),
			RequiredConnects: scheduler.RequiredConnects(r, creatorID),
			Status:           model.SignullPending,
			CreatedAt:        now,
		}
		r.Signulls.Append(entry)
		scheduler.RecomputeActive(r)
		r.UpdatedAt = now
		created = entry
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	// Return the committed entry, not the transaction-local one
	return updated.Signulls.Get(created.ID), updated, nil
}

// SubmitConnect records an attempt against a signull. A guesser's correct
// connect advances the entry toward resolution; the setter's submission is
// the intercept path, racing to block the entry on the identical comparison.
// Whichever transaction commits first wins; the loser re-reads the winner's
// state and observes the entry already finalised.
func (c *Controller) SubmitConnect(ctx context.Context, code model.RoomCode, playerID model.PlayerID, signullID model.SignullID, guess string) (lifecycle.Result, *model.Room, error) {
	if err := validation.Guess(guess); err != nil {
		return lifecycle.Result{}, nil, err
	}

	var result lifecycle.Result
	updated, err := c.mutate(ctx, code, func(r *model.Room) error {
		result = lifecycle.Result{}
		player := r.GetPlayer(playerID)
		if player == nil {
			return model.ErrNotInRoom
		}
		if r.Phase != model.PhaseSignulls {
			return model.ErrWrongPhase
		}
		entry := r.Signulls.Get(signullID)
		if entry == nil {
			return model.ErrSignullNotFound
		}

		now := c.clock.Now()
		var err error
		if playerID == r.SetterID {
			result, err = c.intercept(r, entry, guess, now)
		} else {
			result, err = c.connect(r, entry, playerID, guess, now)
		}
		if err != nil {
			return err
		}
		player.LastActiveAt = now
		r.UpdatedAt = now
		return nil
	})
	if err != nil {
		return lifecycle.Result{}, nil, err
	}
	return result, updated, nil
}

func (c *Controller) connect(r *model.Room, entry *model.SignullEntry, playerID model.PlayerID, guess string, now time.Time) (lifecycle.Result, error) {
	if entry.CreatorID == playerID {
		return lifecycle.Result{}, model.ErrOwnSignull
	}
	// Round-robin gates pending entries to the active turn; stragglers on
	// resolved entries are always allowed
	if entry.Status == model.SignullPending && r.Settings.Mode == model.ModeRoundRobin {
		if active := r.Signulls.Active(); active == nil || active.ID != entry.ID {
			return lifecycle.Result{}, model.ErrSignullNotActive
		}
	}

	result, err := lifecycle.Connect(entry, playerID, guess, now)
	if err != nil {
		return lifecycle.Result{}, err
	}

	switch result.Outcome {
	case lifecycle.OutcomeCorrect:
		r.AddScoreEvent(c.scoring.ConnectEvent(playerID, entry.ID, now))
	case lifecycle.OutcomeStraggler:
		r.AddScoreEvent(c.scoring.StragglerEvent(playerID, entry.ID, now))
	case lifecycle.OutcomeResolved:
		r.AddScoreEvent(c.scoring.ConnectEvent(playerID, entry.ID, now))
		r.AddScoreEvent(c.scoring.ResolutionEvent(entry.CreatorID, entry.ID, now))
		r.RevealedCount++
		c.logger.Info("signull resolved",
			slog.String("room", string(r.Code)),
			slog.String("signull", string(entry.ID)),
			slog.Int("revealed", r.RevealedCount),
		)
		if r.RevealedCount >= r.WordLength() {
			c.endGame(r, model.WinnerGuessers, now)
		} else {
			scheduler.RecomputeActive(r)
		}
	}
	return result, nil
}

// intercept is the setter's side of the race. The guess is matched against
// the entry's target word exactly as a connect would be; a match blocks the
// entry and prevents its reveal.
func (c *Controller) intercept(r *model.Room, entry *model.SignullEntry, guess string, now time.Time) (lifecycle.Result, error) {
	result, err := lifecycle.Intercept(entry, r.SetterID, guess, now)
	if err != nil {
		return lifecycle.Result{}, err
	}

	if result.Outcome == lifecycle.OutcomeBlocked {
		r.AddScoreEvent(c.scoring.InterceptEvent(r.SetterID, entry.ID, now))
		scheduler.RecomputeActive(r)
		c.logger.Info("signull blocked",
			slog.String("room", string(r.Code)),
			slog.String("signull", string(entry.ID)),
		)
	}
	return result, nil
}

// SubmitDirectGuess spends one of the guessers' shared attempts at the whole
// secret word. A correct guess ends the game for the guessers; exhausting
// the budget ends it for the setter. An immediate re-submission of the same
// guess by the same player is a replay and spends nothing.
func (c *Controller) SubmitDirectGuess(ctx context.Context, code model.RoomCode, playerID model.PlayerID, guess string) (model.DirectGuessAttempt, *model.Room, error) {
	if err := validation.Guess(guess); err != nil {
		return model.DirectGuessAttempt{}, nil, err
	}

	var attempt model.DirectGuessAttempt
	updated, err := c.mutate(ctx, code, func(r *model.Room) error {
		player := r.GetPlayer(playerID)
		if player == nil {
			return model.ErrNotInRoom
		}
		if playerID == r.SetterID || player.Role != model.RoleGuesser {
			return model.ErrNotGuesser
		}
		if r.Phase != model.PhaseSignulls {
			return model.ErrWrongPhase
		}

		normalized := validation.Normalize(guess)
		if n := len(r.DirectGuesses); n > 0 {
			last := r.DirectGuesses[n-1]
			if last.PlayerID == playerID && last.Guess == normalized {
				attempt = last
				return nil
			}
		}
		if r.DirectGuessesLeft <= 0 {
			return model.ErrNoGuessesLeft
		}

		now := c.clock.Now()
		attempt = model.DirectGuessAttempt{
			PlayerID: playerID,
			Guess:    normalized,
			Correct:  validation.Matches(r.SecretWord, guess),
			At:       now,
		}
		r.DirectGuesses = append(r.DirectGuesses, attempt)
		r.DirectGuessesLeft--
		player.LastActiveAt = now
		r.UpdatedAt = now

		if attempt.Correct {
			c.endGame(r, model.WinnerGuessers, now)
		} else if r.DirectGuessesLeft == 0 {
			c.endGame(r, model.WinnerSetter, now)
		}
		return nil
	})
	if err != nil {
		return model.DirectGuessAttempt{}, nil, err
	}
	return attempt, updated, nil
}

// endGame finalises the room inside a transaction. Pending signulls become
// inactive and earn nothing; letters the setter kept hidden score now.
func (c *Controller) endGame(r *model.Room, winner model.Winner, now time.Time) {
	for _, e := range r.Signulls.InOrder() {
		lifecycle.Deactivate(e, now)
	}
	r.Signulls.ActiveIndex = nil

	// No award on forfeit: a departed setter is no longer in the room
	if hidden := r.HiddenLetters(); hidden > 0 && r.GetPlayer(r.SetterID) != nil {
		r.AddScoreEvent(c.scoring.LettersRemainingEvent(r.SetterID, hidden, now))
	}

	r.Phase = model.PhaseEnded
	r.Winner = winner
	r.UpdatedAt = now

	c.logger.Info("game ended",
		slog.String("room", string(r.Code)),
		slog.String("winner", string(winner)),
	)
}
