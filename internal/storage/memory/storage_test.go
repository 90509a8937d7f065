package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/signullgame/signull/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
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
	s.Require().NoError(s.storage.CreateRoom(s.ctx, room))

	_, err := s.storage.GetRoom(s.ctx, "ROOM01")
	s.ErrorIs(err, model.ErrUnsupportedVersion)
}

func (s *StorageSuite) TestDeleteRoom() {
	room := s.testRoom("ROOM01")
	s.Require().NoError(s.storage.CreateRoom(s.ctx, room))
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

	// Gone already: not an error, just not deleted by this call
	deleted, err = s.storage.DeleteRoomIfVersion(s.ctx, "ROOM01", 1)
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *StorageSuite) TestRoomExists() {
	exists, err := s.storage.RoomExists(s.ctx, "ROOM01")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.storage.CreateRoom(s.ctx, s.testRoom("ROOM01")))
	exists, err = s.storage.RoomExists(s.ctx, "ROOM01")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestGetRoomReturnsCopy() {
	s.Require().NoError(s.storage.CreateRoom(s.ctx, s.testRoom("ROOM01")))

	first, err := s.storage.GetRoom(s.ctx, "ROOM01")
	s.Require().NoError(err)
	first.Phase = model.PhaseEnded

	second, err := s.storage.GetRoom(s.ctx, "ROOM01")
	s.Require().NoError(err)
	s.Equal(model.PhaseLobby, second.Phase, "mutating a snapshot must not touch stored state")
}

// Transact tests

func (s *StorageSuite) TestTransactBumpsVersion() {
	s.Require().NoError(s.storage.CreateRoom(s.ctx, s.testRoom("ROOM01")))

	updated, err := s.storage.Transact(s.ctx, "ROOM01", func(r *model.Room) error {
		r.Phase = model.PhaseSetting
		return nil
	})
	s.Require().NoError(err)
	s.Equal(model.PhaseSetting, updated.Phase)
	s.Equal(int64(1), updated.Version)

	updated, err = s.storage.Transact(s.ctx, "ROOM01", func(r *model.Room) error { return nil })
	s.Require().NoError(err)
	s.Equal(int64(2), updated.Version)
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

func (s *StorageSuite) TestTransactConcurrentIncrements() {
	room := s.testRoom("ROOM01")
	room.Phase = model.PhaseSignulls
	room.SecretWord = "ELEPHANT"
	s.Require().NoError(s.storage.CreateRoom(s.ctx, room))

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.storage.Transact(s.ctx, "ROOM01", func(r *model.Room) error {
				r.RevealedCount++
				return nil
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	final, err := s.storage.GetRoom(s.ctx, "ROOM01")
	s.Require().NoError(err)
	s.Equal(workers, final.RevealedCount, "every increment must commit exactly once")
	s.Equal(int64(workers), final.Version)
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	account := &model.Account{ID: "p-1", DisplayName: "Alice", IsGuest: true, CreatedAt: time.Now()}
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	retrieved, err := s.storage.GetAccount(s.ctx, "p-1")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.DisplayName)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "nope")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestRegisteredAccountByUsername() {
	ra := &model.RegisteredAccount{PlayerID: "p-1", Username: "alice", PasswordHash: "hash"}
	s.Require().NoError(s.storage.SaveRegisteredAccount(s.ctx, ra))

	retrieved, err := s.storage.GetRegisteredAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p-1"), retrieved.PlayerID)

	_, err = s.storage.GetRegisteredAccountByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}
