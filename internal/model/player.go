package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Role distinguishes the setter from the guessers within a room
type Role string

const (
	RoleSetter  Role = "setter"
	RoleGuesser Role = "guesser"
)

// Player represents a participant in a room
type Player struct {
	ID           PlayerID
	DisplayName  string
	Role         Role
	Online       bool
	LastActiveAt time.Time
	Score        int // cumulative across games in this room
	JoinedAt     time.Time
}

// Account represents a player identity independent of any room
type Account struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool // true for unregistered players
	CreatedAt   time.Time
}

// RegisteredAccount extends Account with authentication data
// Stored separately so the password hash never travels with the account
type RegisteredAccount struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
