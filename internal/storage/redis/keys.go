package redis

import (
	"fmt"

	"github.com/signullgame/signull/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "signull"

// roomKey returns the Redis key for a Room document
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// accountKey returns the Redis key for an Account
func accountKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// registeredAccountKey returns the Redis key for a RegisteredAccount
func registeredAccountKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_account:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}
