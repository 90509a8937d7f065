package response

import (
	"time"

	"github.com/signullgame/signull/internal/model"
	"github.com/signullgame/signull/internal/services/auth"
)

// Account represents a player identity in API responses
type Account struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AccountFromModel converts a model.Account to a response Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		ID:          string(a.ID),
		DisplayName: a.DisplayName,
		IsGuest:     a.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Account      Account `json:"account"`
	SessionToken string  `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Account:      AccountFromModel(&s.Account),
		SessionToken: s.Token,
	}
}

// Player represents a room member
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Online      bool   `json:"online"`
	Score       int    `json:"score"`
}

// PlayerFromView converts a model.PlayerView
func PlayerFromView(p model.PlayerView) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		Role:        string(p.Role),
		Online:      p.Online,
		Score:       p.Score,
	}
}

// Settings represents room settings
type Settings struct {
	Mode               string `json:"mode"`
	ConnectsRequired   int    `json:"connects_required"`
	MaxPlayers         int    `json:"max_players"`
	TimeLimitSeconds   int    `json:"time_limit_seconds"`
	StrictWords        bool   `json:"strict_words"`
	PrefixMode         bool   `json:"prefix_mode"`
	ShowScoreBreakdown bool   `json:"show_score_breakdown"`
}

// SettingsFromModel converts model.Settings
func SettingsFromModel(s model.Settings) Settings {
	return Settings{
		Mode:               string(s.Mode),
		ConnectsRequired:   s.ConnectsRequired,
		MaxPlayers:         s.MaxPlayers,
		TimeLimitSeconds:   int(s.TimeLimit.Seconds()),
		StrictWords:        s.StrictWords,
		PrefixMode:         s.PrefixMode,
		ShowScoreBreakdown: s.ShowScoreBreakdown,
	}
}

// Signull represents a signull entry. The target word is never included.
type Signull struct {
	ID               string    `json:"id"`
	CreatorID        string    `json:"creator_id"`
	Clue             string    `json:"clue"`
	Status           string    `json:"status"`
	ConnectCount     int       `json:"connect_count"`
	RequiredConnects int       `json:"required_connects"`
	CreatedAt        time.Time `json:"created_at"`
}

// SignullFromView converts a model.SignullView
func SignullFromView(v model.SignullView) Signull {
	return Signull{
		ID:               string(v.ID),
		CreatorID:        string(v.CreatorID),
		Clue:             v.Clue,
		Status:           string(v.Status),
		ConnectCount:     v.ConnectCount,
		RequiredConnects: v.RequiredConnects,
		CreatedAt:        v.CreatedAt,
	}
}

// ScoreEvent represents one auditable score delta
type ScoreEvent struct {
	PlayerID  string    `json:"player_id"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason"`
	SignullID string    `json:"signull_id,omitempty"`
	At        time.Time `json:"at"`
}

// ScoreEventFromModel converts a model.ScoreEvent
func ScoreEventFromModel(ev model.ScoreEvent) ScoreEvent {
	return ScoreEvent{
		PlayerID:  string(ev.PlayerID),
		Delta:     ev.Delta,
		Reason:    string(ev.Reason),
		SignullID: string(ev.SignullID),
		At:        ev.At,
	}
}

// Room represents a room in API responses. It is derived from the spectator
// projection, so the secret word never leaves the server.
type Room struct {
	Code          string `json:"code"`
	Phase         string `json:"phase"`
	Mask          string `json:"mask"`
	WordLength    int    `json:"word_length"`
	RevealedCount int    `json:"revealed_count"`

	Players  []Player `json:"players"`
	HostID   string   `json:"host_id"`
	SetterID string   `json:"setter_id"`

	Signulls        []Signull `json:"signulls"`
	ActiveSignullID *string   `json:"active_signull_id"`

	DirectGuessesLeft int      `json:"direct_guesses_left"`
	Winner            string   `json:"winner,omitempty"`
	Settings          Settings `json:"settings"`

	ScoreEvents []ScoreEvent `json:"score_events,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// RoomFromView converts a model.RoomView
func RoomFromView(v *model.RoomView) Room {
	players := make([]Player, len(v.Players))
	for i, p := range v.Players {
		players[i] = PlayerFromView(p)
	}

	signulls := make([]Signull, len(v.Signulls))
	for i, sv := range v.Signulls {
		signulls[i] = SignullFromView(sv)
	}

	var active *string
	if v.ActiveSignullID != nil {
		id := string(*v.ActiveSignullID)
		active = &id
	}

	var events []ScoreEvent
	for _, ev := range v.ScoreEvents {
		events = append(events, ScoreEventFromModel(ev))
	}

	return Room{
		Code:              string(v.Code),
		Phase:             string(v.Phase),
		Mask:              v.Mask,
		WordLength:        v.WordLength,
		RevealedCount:     v.RevealedCount,
		Players:           players,
		HostID:            string(v.HostID),
		SetterID:          string(v.SetterID),
		Signulls:          signulls,
		ActiveSignullID:   active,
		DirectGuessesLeft: v.DirectGuessesLeft,
		Winner:            string(v.Winner),
		Settings:          SettingsFromModel(v.Settings),
		ScoreEvents:       events,
		UpdatedAt:         v.UpdatedAt,
	}
}

// RoomFromModel derives the response from a room snapshot
func RoomFromModel(r *model.Room) Room {
	view := model.NewRoomView(r)
	return RoomFromView(&view)
}

// ConnectResponse is the response after a connect or intercept attempt
type ConnectResponse struct {
	Outcome string `json:"outcome"`
	Correct bool   `json:"correct"`
	Room    Room   `json:"room"`
}

// DirectGuessResponse is the response after a direct guess
type DirectGuessResponse struct {
	Correct     bool `json:"correct"`
	GuessesLeft int  `json:"guesses_left"`
	Room        Room `json:"room"`
}
