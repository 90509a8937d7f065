package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Account:
		o.printAccount(v)
	case AuthResult:
		o.printAuthResult(v)
	case Room:
		o.printRoom(v)
	case ConnectResult:
		o.printConnectResult(v)
	case GuessResult:
		o.printGuessResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Account response type (matches API)
type Account struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines account and token
type AuthResult struct {
	Account      Account `json:"account"`
	SessionToken string  `json:"session_token"`
}

// RoomPlayer response type
type RoomPlayer struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Online      bool   `json:"online"`
	Score       int    `json:"score"`
}

// Settings response type
type Settings struct {
	Mode               string `json:"mode"`
	ConnectsRequired   int    `json:"connects_required"`
	MaxPlayers         int    `json:"max_players"`
	TimeLimitSeconds   int    `json:"time_limit_seconds"`
	StrictWords        bool   `json:"strict_words"`
	PrefixMode         bool   `json:"prefix_mode"`
	ShowScoreBreakdown bool   `json:"show_score_breakdown"`
}

// Signull response type
type Signull struct {
	ID               string `json:"id"`
	CreatorID        string `json:"creator_id"`
	Clue             string `json:"clue"`
	Status           string `json:"status"`
	ConnectCount     int    `json:"connect_count"`
	RequiredConnects int    `json:"required_connects"`
}

// ScoreEvent response type
type ScoreEvent struct {
	PlayerID  string `json:"player_id"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason"`
	SignullID string `json:"signull_id,omitempty"`
}

// Room response type
type Room struct {
	Code              string       `json:"code"`
	Phase             string       `json:"phase"`
	Mask              string       `json:"mask"`
	WordLength        int          `json:"word_length"`
	RevealedCount     int          `json:"revealed_count"`
	Players           []RoomPlayer `json:"players"`
	HostID            string       `json:"host_id"`
	SetterID          string       `json:"setter_id"`
	Signulls          []Signull    `json:"signulls"`
	ActiveSignullID   *string      `json:"active_signull_id"`
	DirectGuessesLeft int          `json:"direct_guesses_left"`
	Winner            string       `json:"winner,omitempty"`
	Settings          Settings     `json:"settings"`
	ScoreEvents       []ScoreEvent `json:"score_events,omitempty"`
}

// ConnectResult response type
type ConnectResult struct {
	Outcome string `json:"outcome"`
	Correct bool   `json:"correct"`
	Room    Room   `json:"room"`
}

// GuessResult response type
type GuessResult struct {
	Correct     bool `json:"correct"`
	GuessesLeft int  `json:"guesses_left"`
	Room        Room `json:"room"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printAccount(a Account) {
	guestStr := "no"
	if a.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", a.DisplayName, a.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printAccount(a.Account)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.Code)
	fmt.Printf("Phase: %s\n", r.Phase)

	if r.WordLength > 0 {
		fmt.Printf("Word: %s (%d/%d letters revealed)\n", r.Mask, r.RevealedCount, r.WordLength)
	}
	if r.Phase == "signulls" || r.Phase == "ended" {
		fmt.Printf("Direct guesses left: %d\n", r.DirectGuessesLeft)
	}
	if r.Winner != "" {
		fmt.Printf("Winner: %s\n", r.Winner)
	}

	fmt.Printf("Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		tags := ""
		if p.ID == r.HostID {
			tags += " [host]"
		}
		if !p.Online {
			tags += " [offline]"
		}
		fmt.Printf("  - %s (%s) - %s, %d pts%s\n", p.DisplayName, p.ID, p.Role, p.Score, tags)
	}

	if len(r.Signulls) > 0 {
		fmt.Printf("Signulls (%d):\n", len(r.Signulls))
		for _, sig := range r.Signulls {
			activeStr := ""
			if r.ActiveSignullID != nil && *r.ActiveSignullID == sig.ID {
				activeStr = " [active]"
			}
			fmt.Printf("  - %s: %q (%d/%d connects, %s)%s\n",
				sig.ID, sig.Clue, sig.ConnectCount, sig.RequiredConnects, sig.Status, activeStr)
		}
	}

	if r.Settings.ShowScoreBreakdown && len(r.ScoreEvents) > 0 {
		fmt.Println("Score events:")
		for _, ev := range r.ScoreEvents {
			fmt.Printf("  %+d %s (%s)\n", ev.Delta, ev.Reason, ev.PlayerID)
		}
	}
}

func (o *Output) printConnectResult(c ConnectResult) {
	fmt.Printf("Outcome: %s\n", c.Outcome)
	if c.Correct {
		fmt.Println("Your guess was correct")
	} else {
		fmt.Println("Your guess was incorrect")
	}
	o.printRoom(c.Room)
}

func (o *Output) printGuessResult(g GuessResult) {
	if g.Correct {
		fmt.Println("Correct! The word is cracked.")
	} else {
		fmt.Printf("Wrong. %d direct guesses left.\n", g.GuessesLeft)
	}
	o.printRoom(g.Room)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
