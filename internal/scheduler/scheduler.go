// Package scheduler computes canonical turn ordering and manages the
// active-signull pointer. All functions are pure mutations of a room
// snapshot; persistence is the caller's concern.
package scheduler

import (
	"sort"
	"time"

	"github.com/signullgame/signull/internal/model"
)

// CanonicalPlayers returns all player ids in canonical order: a stable sort
// by id, independent of insertion order or any UI layout.
func CanonicalPlayers(r *model.Room) []model.PlayerID {
	ids := make([]model.PlayerID, 0, len(r.Players))
	for _, p := range r.Players {
		ids = append(ids, p.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// EligibleConnectors returns the canonical guesser ids eligible to connect
// to the given entry, which excludes the entry's own creator.
func EligibleConnectors(r *model.Room, creatorID model.PlayerID) []model.PlayerID {
	var eligible []model.PlayerID
	for _, id := range r.GuesserIDs() {
		if id != creatorID {
			eligible = append(eligible, id)
		}
	}
	return eligible
}

// RequiredConnects clamps the configured connects threshold to
// [1, eligible-1] for a signull created by the given player. The result is
// snapshotted onto the entry at creation time.
func RequiredConnects(r *model.Room, creatorID model.PlayerID) int {
	eligible := len(EligibleConnectors(r, creatorID))
	required := r.Settings.ConnectsRequired

	max := eligible - 1
	if max < 1 {
		max = 1
	}
	if required > max {
		required = max
	}
	if required < 1 {
		required = 1
	}
	return required
}

// NextAfter returns the player following the departed id in canonical order,
// wrapping around. Used for deterministic host and setter reassignment.
func NextAfter(r *model.Room, departed model.PlayerID) model.PlayerID {
	ids := CanonicalPlayers(r)
	if len(ids) == 0 {
		return ""
	}
	for _, id := range ids {
		if id > departed {
			return id
		}
	}
	return ids[0]
}

// RecomputeActive repositions the active-signull pointer. In round-robin
// mode it references the chronologically first pending signull; in free
// mode it is always nil.
func RecomputeActive(r *model.Room) {
	r.Signulls.ActiveIndex = nil
	if r.Settings.Mode != model.ModeRoundRobin {
		return
	}
	for i, id := range r.Signulls.Order {
		e := r.Signulls.Entries[id]
		if e != nil && e.Status == model.SignullPending {
			idx := i
			r.Signulls.ActiveIndex = &idx
			return
		}
	}
}

// HandleDeparture fails any pending signulls whose expected actor was the
// departing player (their creator) so no turn is left unresolved, then
// recomputes the active pointer against the remaining players.
func HandleDeparture(r *model.Room, departed model.PlayerID, now time.Time) {
	for _, e := range r.Signulls.InOrder() {
		if e.Status == model.SignullPending && e.CreatorID == departed {
			e.Status = model.SignullFailed
			e.Final = true
			at := now
			e.ResolvedAt = &at
		}
	}
	RecomputeActive(r)
}
