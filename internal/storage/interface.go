package storage

import (
	"context"

	"github.com/signullgame/signull/internal/model"
)

// MaxTxAttempts bounds how many times Transact retries a conflicting
// read-compute-write cycle before surfacing model.ErrConflict
const MaxTxAttempts = 5

// TxFunc computes the next room state from the current one, in place.
// It may be invoked multiple times if the transaction retries, so it must
// be free of side effects beyond the room it is handed.
type TxFunc func(room *model.Room) error

// Storage defines the interface for data persistence.
//
// Transact is the single structural-mutation path for rooms: it reads the
// current authoritative state, applies fn, and commits only if the stored
// state is unchanged since the read, retrying the whole cycle up to
// MaxTxAttempts. Exactly one of two racing transactions on the same room
// commits; the other re-reads the winner's state.
type Storage interface {
	// Room operations
	CreateRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error

	// DeleteRoomIfVersion deletes the room only while its stored version
	// still equals version, reporting whether the delete happened. A commit
	// that lands between the caller's read and the delete keeps the room.
	DeleteRoomIfVersion(ctx context.Context, code model.RoomCode, version int64) (bool, error)

	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)
	Transact(ctx context.Context, code model.RoomCode, fn TxFunc) (*model.Room, error)

	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error)
	DeleteAccount(ctx context.Context, id model.PlayerID) error

	// Registered account operations
	SaveRegisteredAccount(ctx context.Context, ra *model.RegisteredAccount) error
	GetRegisteredAccount(ctx context.Context, playerID model.PlayerID) (*model.RegisteredAccount, error)
	GetRegisteredAccountByUsername(ctx context.Context, username string) (*model.RegisteredAccount, error)

	Close() error
}
