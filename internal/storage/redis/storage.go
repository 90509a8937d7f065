package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/signullgame/signull/internal/model"
	"github.com/signullgame/signull/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Transact relies on WATCH/MULTI/EXEC: the room key is watched across the
// read-compute-write cycle and EXEC aborts if another client committed in
// between, which gives exactly-one-winner semantics for racing mutations.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) CreateRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, roomKey(room.Code), data, s.cfg.RoomTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrRoomExists
	}
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}
	return decodeRoom(data)
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	return s.client.Del(ctx, roomKey(code)).Err()
}

func (s *Storage) DeleteRoomIfVersion(ctx context.Context, code model.RoomCode, version int64) (bool, error) {
	key := roomKey(code)
	deleted := false

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil
			}
			return err
		}

		room, err := decodeRoom(data)
		if err != nil {
			return err
		}
		if room.Version != version {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		if err == nil {
			deleted = true
		}
		return err
	}

	err := s.client.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		// Another client committed under the watch, so the version moved
		// and the room stays
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	exists, err := s.client.Exists(ctx, roomKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) Transact(ctx context.Context, code model.RoomCode, fn storage.TxFunc) (*model.Room, error) {
	key := roomKey(code)
	var result *model.Room

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrRoomNotFound
			}
			return err
		}

		room, err := decodeRoom(data)
		if err != nil {
			return err
		}

		if err := fn(room); err != nil {
			return err
		}
		room.Version++

		payload, err := json.Marshal(room)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.cfg.RoomTTL)
			return nil
		})
		if err == nil {
			result = room
		}
		return err
	}

	for attempt := 0; attempt < storage.MaxTxAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			// Another client committed between our read and EXEC; retry the
			// whole read-compute-write cycle
			continue
		}
		return nil, err
	}
	return nil, model.ErrConflict
}

func decodeRoom(data []byte) (*model.Room, error) {
	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	if room.SchemaVersion != model.CurrentSchemaVersion {
		return nil, model.ErrUnsupportedVersion
	}
	return &room, nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	key := accountKey(account.ID)

	// Apply TTL only for guest accounts
	var ttl time.Duration
	if account.IsGuest {
		ttl = s.cfg.GuestAccountTTL
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *Storage) GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) DeleteAccount(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, accountKey(id)).Err()
}

// Registered account operations

func (s *Storage) SaveRegisteredAccount(ctx context.Context, ra *model.RegisteredAccount) error {
	data, err := json.Marshal(ra)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, registeredAccountKey(ra.PlayerID), data, 0) // No TTL
	pipe.Set(ctx, usernameIndexKey(ra.Username), string(ra.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredAccount(ctx context.Context, playerID model.PlayerID) (*model.RegisteredAccount, error) {
	data, err := s.client.Get(ctx, registeredAccountKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var ra model.RegisteredAccount
	if err := json.Unmarshal(data, &ra); err != nil {
		return nil, err
	}
	return &ra, nil
}

func (s *Storage) GetRegisteredAccountByUsername(ctx context.Context, username string) (*model.RegisteredAccount, error) {
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetRegisteredAccount(ctx, model.PlayerID(playerIDStr))
}
