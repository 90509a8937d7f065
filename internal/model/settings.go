package model

import "time"

// PlayMode controls how many signulls are addressable at once
type PlayMode string

const (
	// ModeRoundRobin allows exactly one signull to accept connects at a time
	ModeRoundRobin PlayMode = "round_robin"
	// ModeFree allows any pending signull to accept connects concurrently
	ModeFree PlayMode = "free"
)

// Settings holds configurable rules for games in a room
type Settings struct {
	Mode               PlayMode
	ConnectsRequired   int // absolute count; clamped to eligible guessers at use time
	MaxPlayers         int
	TimeLimit          time.Duration // 0 means untimed
	StrictWords        bool          // restrict words to plain A-Z
	PrefixMode         bool          // signull words must extend the revealed prefix
	ShowScoreBreakdown bool
}

// DefaultSettings returns the default room settings
func DefaultSettings() Settings {
	return Settings{
		Mode:               ModeRoundRobin,
		ConnectsRequired:   2,
		MaxPlayers:         8,
		TimeLimit:          0,
		StrictWords:        false,
		PrefixMode:         false,
		ShowScoreBreakdown: true,
	}
}

// Validate checks that the settings are well-formed
func (s Settings) Validate() error {
	if s.Mode != ModeRoundRobin && s.Mode != ModeFree {
		return ErrInvalidSettings
	}
	if s.ConnectsRequired > 100 {
		return ErrLegacyPercent
	}
	if s.ConnectsRequired < 1 {
		return ErrInvalidSettings
	}
	if s.MaxPlayers < 3 || s.MaxPlayers > 16 {
		return ErrInvalidSettings
	}
	if s.TimeLimit < 0 {
		return ErrInvalidSettings
	}
	return nil
}

// ConvertLegacyPercent maps an old percentage-style connects threshold onto
// the canonical absolute count for the given number of eligible guessers.
// This is the only supported migration path for values greater than 100;
// nothing in the engine coerces them silently.
func ConvertLegacyPercent(pct, eligible int) int {
	if pct <= 0 || eligible <= 0 {
		return 1
	}
	count := (pct*eligible + 99) / 100
	if count < 1 {
		count = 1
	}
	return count
}
