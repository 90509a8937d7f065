// Package reconcile maintains a client's optimistic view of a room: an
// authoritative snapshot from the server overlaid with locally-predicted
// mutations that have not been acknowledged yet. Predictions are replayed
// on top of every incoming snapshot, so a confirmed action simply
// disappears into the authoritative state it predicted.
package reconcile

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/signullgame/signull/internal/dependencies/clock"
	"github.com/signullgame/signull/internal/model"
)

// DefaultPredictionTimeout bounds how long an unacknowledged prediction
// stays in the overlay before it is assumed lost and rolled back
const DefaultPredictionTimeout = 10 * time.Second

// ActionID identifies one predicted mutation
type ActionID string

// Prediction applies a locally-predicted mutation to a room clone. It runs
// against every fresh snapshot, so it must tolerate state that has moved
// on: returning an error skips the overlay for that snapshot.
type Prediction func(r *model.Room) error

type pendingAction struct {
	id    ActionID
	apply Prediction
	at    time.Time
}

// Reconciler holds the authoritative snapshot and the prediction overlay
type Reconciler struct {
	mu      sync.Mutex
	clock   clock.Clock
	logger  *slog.Logger
	timeout time.Duration

	authoritative *model.Room
	pending       []pendingAction
}

// New creates a reconciler with the default prediction timeout
func New(clock clock.Clock, logger *slog.Logger) *Reconciler {
	return NewWithTimeout(clock, logger, DefaultPredictionTimeout)
}

// NewWithTimeout creates a reconciler with a custom prediction timeout
func NewWithTimeout(clock clock.Clock, logger *slog.Logger, timeout time.Duration) *Reconciler {
	return &Reconciler{
		clock:   clock,
		logger:  logger.With(slog.String("component", "reconcile")),
		timeout: timeout,
	}
}

// ApplySnapshot installs a new authoritative snapshot. Predictions older
// than the timeout are rolled back; the rest stay overlaid until the server
// confirms or rejects them. A nil snapshot is the room-teardown tombstone
// and clears everything.
func (r *Reconciler) ApplySnapshot(room *model.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if room == nil {
		r.authoritative = nil
		r.pending = nil
		return
	}
	// A late-delivered snapshot can arrive after a newer one; installing it
	// would rewind the view, so it is dropped and the overlay left alone
	if r.authoritative != nil && room.Version <= r.authoritative.Version {
		return
	}
	r.authoritative = room

	cutoff := r.clock.Now().Add(-r.timeout)
	kept := r.pending[:0]
	for _, p := range r.pending {
		if p.at.Before(cutoff) {
			r.logger.Warn("prediction timed out, rolling back",
				slog.String("action", string(p.id)),
			)
			continue
		}
		kept = append(kept, p)
	}
	r.pending = kept
}

// Predict registers a local mutation ahead of server acknowledgement. The
// prediction is validated against the current view first; an error here
// means the action would not have been legal and nothing is registered.
func (r *Reconciler) Predict(apply Prediction) (ActionID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.authoritative == nil {
		return "", model.ErrRoomNotFound
	}

	// Validate against the current overlaid view
	probe := r.viewLocked()
	if err := apply(probe); err != nil {
		return "", err
	}

	id := ActionID(uuid.NewString())
	r.pending = append(r.pending, pendingAction{
		id:    id,
		apply: apply,
		at:    r.clock.Now(),
	})
	return id, nil
}

// Confirm removes an acknowledged prediction. The server's snapshot now
// carries the real effect, so the overlay entry is redundant.
func (r *Reconciler) Confirm(id ActionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(id)
}

// Reject rolls back a refused prediction. Losing a signull race to another
// actor is expected play and logged quietly; anything else is a real
// desync worth a warning. Returns whether the rejection was benign.
func (r *Reconciler) Reject(id ActionID, cause error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(id)

	if model.IsBenignRace(cause) {
		r.logger.Info("prediction lost a race",
			slog.String("action", string(id)),
			slog.String("cause", cause.Error()),
		)
		return true
	}
	r.logger.Warn("prediction rejected",
		slog.String("action", string(id)),
		slog.String("cause", cause.Error()),
	)
	return false
}

// View returns the authoritative snapshot with all live predictions
// overlaid. Predictions that no longer apply cleanly are skipped for this
// view but remain registered; the server's verdict removes them.
// Returns nil when no snapshot has arrived or the room was torn down.
func (r *Reconciler) View() *model.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewLocked()
}

func (r *Reconciler) viewLocked() *model.Room {
	if r.authoritative == nil {
		return nil
	}
	view := r.authoritative.Clone()
	for _, p := range r.pending {
		// Each prediction applies to its own clone so a mid-apply error
		// can never leave a half-mutated view
		next := view.Clone()
		if err := p.apply(next); err != nil {
			continue
		}
		view = next
	}
	return view
}

// PendingCount returns the number of unacknowledged predictions
func (r *Reconciler) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

func (r *Reconciler) remove(id ActionID) {
	for i, p := range r.pending {
		if p.id == id {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			return
		}
	}
}
