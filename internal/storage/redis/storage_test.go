package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/signullgame/signull/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	client  *redis.Client
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GuestAccountTTL = time.Hour
	cfg.RoomTTL = time.Hour

	s.storage = NewWithClient(s.client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) testRoom(code model.RoomCode) *model.Room {
	return &model.Room{
		SchemaVersion: model.CurrentSchemaVersion,
		Code:          code,
		Phase:         model.PhaseLobby,
		Settings:      model.DefaultSettings(),
		Signulls:      model.NewSignullContainer(),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

// Room tests

func (s *StorageSuite) TestCreateAndGetRoom() {
	room := s.testRoom("ROOM01")
	s.Require().NoError(s.storage.CreateRoom(s.ctx, room))

	retrieved, err := s.storage.GetRoom(s.ctx, "ROOM01")
	s.Require().NoError(err)
	s.Equal(room.Code, retrieved.Code)
	s.Equal(model.PhaseLobby, retrieved.Phase)
}

func (s *StorageSuite) TestCreateRoomTwice() {
	room := s.testRoom("ROOM01")
	s.Require().NoError(s.storage.CreateRoom(s.ctx, room))
	s.ErrorIs(s.storage.CreateRoom(s.ctx, room), model.ErrRoomExists)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "NOPE")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestGetRoomUnsupportedVersion() {
	room := s.testRoom("ROOM01")
	room.SchemaVersion = 99
	data, err := json.Marshal(room)
	s.Require().NoError(err)
	s.Require().NoError(s.mini.Set(roomKey("ROOM01"), string(data)))

	_, err = s.storage.GetRoom(s.ctx, "ROOM01")
	s.ErrorIs(err, model.ErrUnsupportedVersion)
}

func (s *StorageSuite) TestDeleteRoom() {
	s.Require().NoError(s.storage.CreateRoom(s.ctx, s.testRoom("ROOM01")))
	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "ROOM01"))

	_, err := s.storage.GetRoom(s.ctx, "ROOM01")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestDeleteRoomIfVersion() {
	s.Require().NoError(s.storage.CreateRoom(s.ctx, s.testRoom("ROOM01")))
	_, err := s.storage.Transact(s.ctx, "ROOM01", func(r *model.Room) error { return nil })
	s.Require().NoError(err)

	// A stale version means someone committed since the caller's read
	deleted, err := s.storage.DeleteRoomIfVersion(s.ctx, "ROOM01", 0)
	s.Require().NoError(err)
	s.False(deleted)
	_, err = s.storage.GetRoom(s.ctx, "ROOM01")
	s.NoError(err, "a moved version keeps the room")

	deleted, err = s.storage.DeleteRoomIfVersion(s.ctx, "ROOM01", 1)
	s.Require().NoError(err)
	s.True(deleted)
	_, err = s.storage.GetRoom(s.ctx, "ROOM01")
	s.ErrorIs(err, model.ErrRoomNotFound)

	deleted, err = s.storage.DeleteRoomIfVersion(s.ctx, "ROOM01", 1)
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *StorageSuite) TestRoomHasTTL() {
	s.Require().NoError(s.storage.CreateRoom(s.ctx, s.testRoom("ROOM01")))
	s.True(s.mini.TTL(roomKey("ROOM01")) > 0, "room documents should expire")
}

// Transact tests

func (s *StorageSuite) TestTransactCommits() {
	s.Require().NoError(s.storage.CreateRoom(s.ctx, s.testRoom("ROOM01")))

	updated, err := s.storage.Transact(s.ctx, "ROOM01", func(r *model.Room) error {
		r.Phase = model.PhaseSetting
		return nil
	})
	s.Require().NoError(err)
	s.Equal(model.PhaseSetting, updated.Phase)
	s.Equal(int64(1), updated.Version)

	retrieved, err := s.storage.GetRoom(s.ctx, "ROOM01")
	s.Require().NoError(err)
	s.Equal(model.PhaseSetting, retrieved.Phase)
}

func (s *StorageSuite) TestTransactNotFound() {
	_, err := s.storage.Transact(s.ctx, "NOPE", func(r *model.Room) error { return nil })
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestTransactFnErrorDoesNotCommit() {
	s.Require().NoError(s.storage.CreateRoom(s.ctx, s.testRoom("ROOM01")))

	_, err := s.storage.Transact(s.ctx, "ROOM01", func(r *model.Room) error {
		r.Phase = model.PhaseEnded
		return model.ErrNotHost
	})
	s.ErrorIs(err, model.ErrNotHost)

	room, err := s.storage.GetRoom(s.ctx, "ROOM01")
	s.Require().NoError(err)
	s.Equal(model.PhaseLobby, room.Phase)
	s.Equal(int64(0), room.Version)
}

func (s *StorageSuite) TestTransactRetriesOnConflict() {
	room := s.testRoom("ROOM01")
	room.Phase = model.PhaseSignulls
	room.SecretWord = "ELEPHANT"
	s.Require().NoError(s.storage.CreateRoom(s.ctx, room))

	// Interfere exactly once: after the first read, overwrite the watched key
	// from a second client so EXEC aborts and the cycle retries against the
	// interferer's committed state.
	other := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	defer func() { _ = other.Close() }()

	attempts := 0
	updated, err := s.storage.Transact(s.ctx, "ROOM01", func(r *model.Room) error {
		attempts++
		if attempts == 1 {
			interfered := r.Clone()
			interfered.RevealedCount = 3
			interfered.Version++
			data, err := json.Marshal(interfered)
			s.Require().NoError(err)
			s.Require().NoError(other.Set(s.ctx, roomKey("ROOM01"), data, 0).Err())
		}
		r.RevealedCount++
		return nil
	})
	s.Require().NoError(err)
	s.Equal(2, attempts, "first cycle must lose the race and retry")

	// The retry read the interferer's commit, so both writes are reflected
	s.Equal(4, updated.RevealedCount)
	s.Equal(int64(2), updated.Version)
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	account := &model.Account{ID: "p-1", DisplayName: "Alice", IsGuest: false, CreatedAt: time.Now()}
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	retrieved, err := s.storage.GetAccount(s.ctx, "p-1")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.DisplayName)
}

func (s *StorageSuite) TestGuestAccountTTL() {
	guest := &model.Account{ID: "g-1", IsGuest: true}
	registered := &model.Account{ID: "r-1", IsGuest: false}

	s.Require().NoError(s.storage.SaveAccount(s.ctx, guest))
	s.Require().NoError(s.storage.SaveAccount(s.ctx, registered))

	s.True(s.mini.TTL(accountKey(guest.ID)) > 0, "guest account should have TTL")
	s.Equal(time.Duration(0), s.mini.TTL(accountKey(registered.ID)), "registered account should not expire")
}

func (s *StorageSuite) TestRegisteredAccountByUsername() {
	ra := &model.RegisteredAccount{PlayerID: "p-1", Username: "alice", PasswordHash: "hash123", CreatedAt: time.Now()}
	s.Require().NoError(s.storage.SaveRegisteredAccount(s.ctx, ra))

	retrieved, err := s.storage.GetRegisteredAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p-1"), retrieved.PlayerID)
	s.Equal("hash123", retrieved.PasswordHash)

	_, err = s.storage.GetRegisteredAccountByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}
