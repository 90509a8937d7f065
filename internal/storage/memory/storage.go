package memory

import (
	"context"
	"sync"

	"github.com/signullgame/signull/internal/model"
	"github.com/signullgame/signull/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Rooms are stored and returned as deep copies so a caller can never
// mutate authoritative state outside Transact.
type Storage struct {
	mu sync.RWMutex

	// txMu serialises Transact cycles so local transactions never livelock;
	// the version check below still guards against interleaved saves
	txMu sync.Mutex

	rooms              map[model.RoomCode]*model.Room
	accounts           map[model.PlayerID]*model.Account
	registeredAccounts map[model.PlayerID]*model.RegisteredAccount
	usernameIndex      map[string]model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:              make(map[model.RoomCode]*model.Room),
		accounts:           make(map[model.PlayerID]*model.Account),
		registeredAccounts: make(map[model.PlayerID]*model.RegisteredAccount),
		usernameIndex:      make(map[string]model.PlayerID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) CreateRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.Code]; ok {
		return model.ErrRoomExists
	}
	s.rooms[room.Code] = room.Clone()
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	if room.SchemaVersion != model.CurrentSchemaVersion {
		return nil, model.ErrUnsupportedVersion
	}
	return room.Clone(), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

func (s *Storage) DeleteRoomIfVersion(ctx context.Context, code model.RoomCode, version int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok || room.Version != version {
		return false, nil
	}
	delete(s.rooms, code)
	return true, nil
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok, nil
}

func (s *Storage) Transact(ctx context.Context, code model.RoomCode, fn storage.TxFunc) (*model.Room, error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	for attempt := 0; attempt < storage.MaxTxAttempts; attempt++ {
		s.mu.RLock()
		stored, ok := s.rooms[code]
		if !ok {
			s.mu.RUnlock()
			return nil, model.ErrRoomNotFound
		}
		if stored.SchemaVersion != model.CurrentSchemaVersion {
			s.mu.RUnlock()
			return nil, model.ErrUnsupportedVersion
		}
		readVersion := stored.Version
		working := stored.Clone()
		s.mu.RUnlock()

		if err := fn(working); err != nil {
			return nil, err
		}
		working.Version++

		s.mu.Lock()
		current, ok := s.rooms[code]
		if !ok {
			s.mu.Unlock()
			return nil, model.ErrRoomNotFound
		}
		if current.Version != readVersion {
			// Lost the race; retry the whole read-compute-write cycle
			s.mu.Unlock()
			continue
		}
		s.rooms[code] = working
		s.mu.Unlock()
		return working.Clone(), nil
	}
	return nil, model.ErrConflict
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = account
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return account, nil
}

func (s *Storage) DeleteAccount(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
	return nil
}

// Registered account operations

func (s *Storage) SaveRegisteredAccount(ctx context.Context, ra *model.RegisteredAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredAccounts[ra.PlayerID] = ra
	s.usernameIndex[ra.Username] = ra.PlayerID
	return nil
}

func (s *Storage) GetRegisteredAccount(ctx context.Context, playerID model.PlayerID) (*model.RegisteredAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ra, ok := s.registeredAccounts[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return ra, nil
}

func (s *Storage) GetRegisteredAccountByUsername(ctx context.Context, username string) (*model.RegisteredAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	ra, ok := s.registeredAccounts[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return ra, nil
}

// Close is a no-op for the in-memory backend
func (s *Storage) Close() error {
	return nil
}
