package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/signullgame/signull/internal/api/middleware"
	"github.com/signullgame/signull/internal/api/request"
	"github.com/signullgame/signull/internal/api/response"
	"github.com/signullgame/signull/internal/model"
	"github.com/signullgame/signull/internal/services/room"
)

// RoomHandler handles room membership and lifecycle endpoints
type RoomHandler struct {
	controller *room.Controller
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(controller *room.Controller) *RoomHandler {
	return &RoomHandler{
		controller: controller,
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())

	created, err := h.controller.CreateRoom(r.Context(), account.ID, account.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(created))
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	view, err := h.controller.GetView(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromView(view))
}

// Join handles POST /api/v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	joined, err := h.controller.JoinRoom(r.Context(), code, account.ID, account.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(joined))
}

// Leave handles POST /api/v1/rooms/{code}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := h.controller.LeaveRoom(r.Context(), code, account.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Kick handles DELETE /api/v1/rooms/{code}/players/{player_id}
func (h *RoomHandler) Kick(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	vars := mux.Vars(r)
	code := model.RoomCode(vars["code"])
	targetID := model.PlayerID(vars["player_id"])

	if err := h.controller.KickPlayer(r.Context(), code, account.ID, targetID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// UpdateSettings handles PATCH /api/v1/rooms/{code}/settings
func (h *RoomHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	settings := model.Settings{
		Mode:               model.PlayMode(req.Mode),
		ConnectsRequired:   req.ConnectsRequired,
		MaxPlayers:         req.MaxPlayers,
		TimeLimit:          time.Duration(req.TimeLimitSeconds) * time.Second,
		StrictWords:        req.StrictWords,
		PrefixMode:         req.PrefixMode,
		ShowScoreBreakdown: req.ShowScoreBreakdown,
	}

	updated, err := h.controller.UpdateSettings(r.Context(), code, account.ID, settings)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(updated))
}

// ChangeSetter handles POST /api/v1/rooms/{code}/setter
func (h *RoomHandler) ChangeSetter(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.ChangeSetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.NewSetterID == "" {
		WriteError(w, NewInvalidRequestError("new_setter_id is required"))
		return
	}

	updated, err := h.controller.ChangeSetter(r.Context(), code, account.ID, model.PlayerID(req.NewSetterID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(updated))
}

// Start handles POST /api/v1/rooms/{code}/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	updated, err := h.controller.StartGame(r.Context(), code, account.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(updated))
}

// Reset handles POST /api/v1/rooms/{code}/reset
func (h *RoomHandler) Reset(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	updated, err := h.controller.ResetRoom(r.Context(), code, account.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(updated))
}
