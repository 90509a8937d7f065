package model

import "time"

// SignullID uniquely identifies a signull entry
type SignullID string

// SignullStatus is the lifecycle state of a signull entry.
// Every status other than pending is terminal.
type SignullStatus string

const (
	SignullPending  SignullStatus = "pending"
	SignullResolved SignullStatus = "resolved"
	SignullBlocked  SignullStatus = "blocked"
	SignullFailed   SignullStatus = "failed"
	SignullInactive SignullStatus = "inactive"
)

// ConnectAttempt is a single match attempt against a signull's target word.
// Setter intercept attempts are recorded in the same list.
type ConnectAttempt struct {
	PlayerID PlayerID
	Guess    string
	Correct  bool
	At       time.Time
}

// SignullEntry is a clue (target word + clue text) posted by a guesser
type SignullEntry struct {
	ID        SignullID
	CreatorID PlayerID
	Word      string // normalized target word
	Clue      string

	// RequiredConnects is the threshold snapshotted at creation, already
	// clamped against the guessers eligible at that moment
	RequiredConnects int

	Attempts []ConnectAttempt
	Status   SignullStatus
	Final    bool

	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// AttemptBy returns the recorded attempt for the given player, or nil
func (e *SignullEntry) AttemptBy(playerID PlayerID) *ConnectAttempt {
	for i := range e.Attempts {
		if e.Attempts[i].PlayerID == playerID {
			return &e.Attempts[i]
		}
	}
	return nil
}

// CountedCorrect returns the number of correct connects that counted toward
// the resolution threshold. Attempts beyond the threshold are stragglers and
// do not count.
func (e *SignullEntry) CountedCorrect(setterID PlayerID) int {
	count := 0
	for _, a := range e.Attempts {
		if a.PlayerID == setterID {
			continue
		}
		if a.Correct {
			count++
			if count >= e.RequiredConnects {
				break
			}
		}
	}
	return count
}

// SignullContainer owns the signulls of a room in insertion order
type SignullContainer struct {
	Order   []SignullID
	Entries map[SignullID]*SignullEntry

	// ActiveIndex points into Order at the signull currently addressable.
	// Non-nil only in round-robin mode.
	ActiveIndex *int
}

// NewSignullContainer returns an empty container
func NewSignullContainer() SignullContainer {
	return SignullContainer{
		Order:   []SignullID{},
		Entries: make(map[SignullID]*SignullEntry),
	}
}

// Append adds an entry to the container in chronological position
func (c *SignullContainer) Append(e *SignullEntry) {
	if c.Entries == nil {
		c.Entries = make(map[SignullID]*SignullEntry)
	}
	c.Order = append(c.Order, e.ID)
	c.Entries[e.ID] = e
}

// Get returns the entry with the given id, or nil
func (c *SignullContainer) Get(id SignullID) *SignullEntry {
	return c.Entries[id]
}

// Len returns the number of entries
func (c *SignullContainer) Len() int {
	return len(c.Order)
}

// InOrder returns all entries in chronological order
func (c *SignullContainer) InOrder() []*SignullEntry {
	entries := make([]*SignullEntry, 0, len(c.Order))
	for _, id := range c.Order {
		if e, ok := c.Entries[id]; ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// Active returns the entry the active index references, or nil
func (c *SignullContainer) Active() *SignullEntry {
	if c.ActiveIndex == nil {
		return nil
	}
	idx := *c.ActiveIndex
	if idx < 0 || idx >= len(c.Order) {
		return nil
	}
	return c.Entries[c.Order[idx]]
}
