// Package room implements the authoritative mutation core. Every structural
// change to a room goes through a storage transaction: read the current
// state, apply the rules, commit only if nothing changed underneath. The
// committed snapshot is then published to the room's subscribers.
package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/signullgame/signull/internal/dependencies/clock"
	"github.com/signullgame/signull/internal/dependencies/random"
	"github.com/signullgame/signull/internal/model"
	"github.com/signullgame/signull/internal/pubsub"
	"github.com/signullgame/signull/internal/scheduler"
	"github.com/signullgame/signull/internal/services/scoring"
	"github.com/signullgame/signull/internal/storage"
)

const (
	// Room code alphabet excludes easily-confused characters (I, O, 0, 1)
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength   = 6
	maxCodeAttempts  = 10

	// MinPlayersToStart is the smallest playable room: one setter and
	// enough guessers that a signull can have a creator and a connector
	MinPlayersToStart = 3
)

// Controller owns all room mutations
type Controller struct {
	storage storage.Storage
	broker  *pubsub.Broker
	scoring *scoring.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new room controller
func New(
	storage storage.Storage,
	broker *pubsub.Broker,
	scoring *scoring.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		broker:  broker,
		scoring: scoring,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "room")),
	}
}

// CreateRoom creates a room with the creator as both host and setter
func (c *Controller) CreateRoom(ctx context.Context, creatorID model.PlayerID, displayName string) (*model.Room, error) {
	now := c.clock.Now()

	room := &model.Room{
		SchemaVersion: model.CurrentSchemaVersion,
		Phase:         model.PhaseLobby,
		HostID:        creatorID,
		SetterID:      creatorID,
		Players: []model.Player{{
			ID:           creatorID,
			DisplayName:  displayName,
			Role:         model.RoleSetter,
			Online:       true,
			LastActiveAt: now,
			JoinedAt:     now,
		}},
		Signulls:  model.NewSignullContainer(),
		Settings:  model.DefaultSettings(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		room.Code = model.RoomCode(c.random.String(roomCodeLength, roomCodeAlphabet))
		err := c.storage.CreateRoom(ctx, room)
		if err == nil {
			c.logger.Info("room created",
				slog.String("room", string(room.Code)),
				slog.String("host", string(creatorID)),
			)
			return room, nil
		}
		if !errors.Is(err, model.ErrRoomExists) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("could not allocate a unique room code after %d attempts", maxCodeAttempts)
}

// JoinRoom adds a player to a room as a guesser. Re-joining is idempotent:
// an existing member is marked back online without a second seat.
func (c *Controller) JoinRoom(ctx context.Context, code model.RoomCode, playerID model.PlayerID, displayName string) (*model.Room, error) {
	return c.mutate(ctx, code, func(r *model.Room) error {
		now := c.clock.Now()
		if p := r.GetPlayer(playerID); p != nil {
			p.Online = true
			p.LastActiveAt = now
			r.UpdatedAt = now
			return nil
		}
		if len(r.Players) >= r.Settings.MaxPlayers {
			return model.ErrRoomFull
		}
		r.Players = append(r.Players, model.Player{
			ID:           playerID,
			DisplayName:  displayName,
			Role:         model.RoleGuesser,
			Online:       true,
			LastActiveAt: now,
			JoinedAt:     now,
		})
		r.UpdatedAt = now
		return nil
	})
}

// LeaveRoom removes a player. Host and setter duties pass deterministically
// to the next player in canonical order; the departing player's pending
// signulls fail so no turn dangles. An empty room is torn down.
func (c *Controller) LeaveRoom(ctx context.Context, code model.RoomCode, playerID model.PlayerID) error {
	updated, err := c.mutate(ctx, code, func(r *model.Room) error {
		if r.GetPlayer(playerID) == nil {
			return model.ErrNotInRoom
		}
		c.removePlayer(r, playerID)
		return nil
	})
	if err != nil {
		return err
	}

	if len(updated.Players) == 0 {
		// The delete re-checks the version: a join that committed after this
		// leave keeps the room alive and must not be destroyed with it
		deleted, err := c.storage.DeleteRoomIfVersion(ctx, code, updated.Version)
		if err != nil {
			return err
		}
		if deleted {
			c.broker.CloseRoom(code)
			c.logger.Info("room torn down", slog.String("room", string(code)))
		}
	}
	return nil
}

// KickPlayer removes a player by host action. The departure semantics are
// identical to a voluntary leave.
func (c *Controller) KickPlayer(ctx context.Context, code model.RoomCode, hostID, targetID model.PlayerID) error {
	if hostID == targetID {
		return c.LeaveRoom(ctx, code, targetID)
	}
	_, err := c.mutate(ctx, code, func(r *model.Room) error {
		if r.HostID != hostID {
			return model.ErrNotHost
		}
		if r.GetPlayer(targetID) == nil {
			return model.ErrNotInRoom
		}
		c.removePlayer(r, targetID)
		return nil
	})
	return err
}

// removePlayer performs the shared departure transition inside a transaction
func (c *Controller) removePlayer(r *model.Room, departed model.PlayerID) {
	now := c.clock.Now()
	wasSetter := r.SetterID == departed

	for i := range r.Players {
		if r.Players[i].ID == departed {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			break
		}
	}

	if len(r.Players) == 0 {
		r.UpdatedAt = now
		return
	}

	// A mid-game setter departure forfeits: only the setter knew the secret
	// word. The game ends before the role moves, so the hidden-letter award
	// never lands on the replacement.
	if wasSetter && (r.Phase == model.PhaseSetting || r.Phase == model.PhaseSignulls) {
		c.endGame(r, model.WinnerGuessers, now)
	}

	if r.HostID == departed {
		r.HostID = scheduler.NextAfter(r, departed)
	}
	if wasSetter {
		newSetter := scheduler.NextAfter(r, departed)
		r.SetterID = newSetter
		if p := r.GetPlayer(newSetter); p != nil {
			p.Role = model.RoleSetter
		}
	}

	scheduler.HandleDeparture(r, departed, now)
	r.UpdatedAt = now
}

// UpdateSettings replaces the room settings. Host only, lobby only.
func (c *Controller) UpdateSettings(ctx context.Context, code model.RoomCode, hostID model.PlayerID, settings model.Settings) (*model.Room, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return c.mutate(ctx, code, func(r *model.Room) error {
		if r.HostID != hostID {
			return model.ErrNotHost
		}
		if r.Phase != model.PhaseLobby {
			return model.ErrWrongPhase
		}
		if len(r.Players) > settings.MaxPlayers {
			return model.ErrInvalidSettings
		}
		r.Settings = settings
		r.UpdatedAt = c.clock.Now()
		return nil
	})
}

// ChangeSetter hands the setter role to another player. Host only, lobby only.
func (c *Controller) ChangeSetter(ctx context.Context, code model.RoomCode, hostID, newSetterID model.PlayerID) (*model.Room, error) {
	return c.mutate(ctx, code, func(r *model.Room) error {
		if r.HostID != hostID {
			return model.ErrNotHost
		}
		if r.Phase != model.PhaseLobby {
			return model.ErrWrongPhase
		}
		target := r.GetPlayer(newSetterID)
		if target == nil {
			return model.ErrNotInRoom
		}
		if prev := r.GetPlayer(r.SetterID); prev != nil {
			prev.Role = model.RoleGuesser
		}
		target.Role = model.RoleSetter
		r.SetterID = newSetterID
		r.UpdatedAt = c.clock.Now()
		return nil
	})
}

// StartGame moves the room from lobby to the word-setting phase
func (c *Controller) StartGame(ctx context.Context, code model.RoomCode, hostID model.PlayerID) (*model.Room, error) {
	return c.mutate(ctx, code, func(r *model.Room) error {
		if r.HostID != hostID {
			return model.ErrNotHost
		}
		if r.Phase != model.PhaseLobby {
			return model.ErrWrongPhase
		}
		if len(r.Players) < MinPlayersToStart {
			return model.ErrInsufficientPlayers
		}
		r.Phase = model.PhaseSetting
		r.UpdatedAt = c.clock.Now()
		return nil
	})
}

// ResetRoom returns an ended room to the lobby for another game. Cumulative
// player scores survive; all per-game state is discarded.
func (c *Controller) ResetRoom(ctx context.Context, code model.RoomCode, hostID model.PlayerID) (*model.Room, error) {
	return c.mutate(ctx, code, func(r *model.Room) error {
		if r.HostID != hostID {
			return model.ErrNotHost
		}
		if r.Phase != model.PhaseEnded {
			return model.ErrWrongPhase
		}
		r.Phase = model.PhaseLobby
		r.SecretWord = ""
		r.RevealedCount = 0
		r.Signulls = model.NewSignullContainer()
		r.DirectGuessesLeft = 0
		r.DirectGuesses = nil
		r.Winner = model.WinnerNone
		r.ScoreEvents = nil
		r.UpdatedAt = c.clock.Now()
		return nil
	})
}

// GetRoom returns a snapshot of the room
func (c *Controller) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return c.storage.GetRoom(ctx, code)
}

// GetView returns the spectator projection of the room
func (c *Controller) GetView(ctx context.Context, code model.RoomCode) (*model.RoomView, error) {
	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	view := model.NewRoomView(room)
	return &view, nil
}

// Subscribe registers for the room's committed-snapshot stream
func (c *Controller) Subscribe(code model.RoomCode) (<-chan *model.Room, func()) {
	return c.broker.Subscribe(code)
}

// mutate runs fn in a storage transaction and publishes the committed
// snapshot. fn may run multiple times under contention.
func (c *Controller) mutate(ctx context.Context, code model.RoomCode, fn storage.TxFunc) (*model.Room, error) {
	updated, err := c.storage.Transact(ctx, code, fn)
	if err != nil {
		return nil, err
	}
	c.broker.Publish(code, updated)
	return updated, nil
}
