package model

import "time"

// PlayerView is the projection of a player for display surfaces
type PlayerView struct {
	ID          PlayerID
	DisplayName string
	Role        Role
	Online      bool
	Score       int
}

// SignullView is the projection of a signull entry. The target word is
// omitted so the view can be shown to spectators without spoiling entries.
type SignullView struct {
	ID               SignullID
	CreatorID        PlayerID
	Clue             string
	Status           SignullStatus
	ConnectCount     int
	RequiredConnects int
	CreatedAt        time.Time
}

// RoomView is a read-only projection of a room for spectator and display
// surfaces. It never carries the secret word, only the revealed mask.
type RoomView struct {
	Code          RoomCode
	Phase         Phase
	Mask          string
	WordLength    int
	RevealedCount int

	Players  []PlayerView
	HostID   PlayerID
	SetterID PlayerID

	Signulls        []SignullView
	ActiveSignullID *SignullID

	DirectGuessesLeft int
	Winner            Winner
	Settings          Settings

	// ScoreEvents is populated only when the room's settings enable the
	// score breakdown display
	ScoreEvents []ScoreEvent

	UpdatedAt time.Time
}

// NewRoomView derives the spectator projection from a room snapshot
func NewRoomView(r *Room) RoomView {
	view := RoomView{
		Code:              r.Code,
		Phase:             r.Phase,
		Mask:              r.RevealedMask(),
		WordLength:        r.WordLength(),
		RevealedCount:     r.RevealedCount,
		HostID:            r.HostID,
		SetterID:          r.SetterID,
		DirectGuessesLeft: r.DirectGuessesLeft,
		Winner:            r.Winner,
		Settings:          r.Settings,
		UpdatedAt:         r.UpdatedAt,
	}

	view.Players = make([]PlayerView, 0, len(r.Players))
	for _, p := range r.Players {
		view.Players = append(view.Players, PlayerView{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Role:        p.Role,
			Online:      p.Online,
			Score:       p.Score,
		})
	}

	view.Signulls = make([]SignullView, 0, r.Signulls.Len())
	for _, e := range r.Signulls.InOrder() {
		view.Signulls = append(view.Signulls, SignullView{
			ID:               e.ID,
			CreatorID:        e.CreatorID,
			Clue:             e.Clue,
			Status:           e.Status,
			ConnectCount:     e.CountedCorrect(r.SetterID),
			RequiredConnects: e.RequiredConnects,
			CreatedAt:        e.CreatedAt,
		})
	}

	if active := r.Signulls.Active(); active != nil {
		id := active.ID
		view.ActiveSignullID = &id
	}

	if r.Settings.ShowScoreBreakdown {
		view.ScoreEvents = append([]ScoreEvent{}, r.ScoreEvents...)
	}

	return view
}
