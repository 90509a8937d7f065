package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/signullgame/signull/internal/api/middleware"
	"github.com/signullgame/signull/internal/api/request"
	"github.com/signullgame/signull/internal/api/response"
	"github.com/signullgame/signull/internal/model"
	"github.com/signullgame/signull/internal/services/room"
)

// SignullHandler handles in-game endpoints
type SignullHandler struct {
	controller *room.Controller
}

// NewSignullHandler creates a new signull handler
func NewSignullHandler(controller *room.Controller) *SignullHandler {
	return &SignullHandler{
		controller: controller,
	}
}

// SetWord handles POST /api/v1/rooms/{code}/word
func (h *SignullHandler) SetWord(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.SetWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Word == "" {
		WriteError(w, NewInvalidRequestError("word is required"))
		return
	}

	updated, err := h.controller.SetSecretWord(r.Context(), code, account.ID, req.Word)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(updated))
}

// Add handles POST /api/v1/rooms/{code}/signulls
func (h *SignullHandler) Add(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.AddSignullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	_, updated, err := h.controller.AddSignull(r.Context(), code, account.ID, req.Word, req.Clue)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(updated))
}

// Connect handles POST /api/v1/rooms/{code}/signulls/{signull_id}/connect.
// The setter calling this endpoint is making an intercept attempt.
func (h *SignullHandler) Connect(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	vars := mux.Vars(r)
	code := model.RoomCode(vars["code"])
	signullID := model.SignullID(vars["signull_id"])

	var req request.ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, updated, err := h.controller.SubmitConnect(r.Context(), code, account.ID, signullID, req.Guess)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ConnectResponse{
		Outcome: string(result.Outcome),
		Correct: result.Attempt.Correct,
		Room:    response.RoomFromModel(updated),
	})
}

// DirectGuess handles POST /api/v1/rooms/{code}/guess
func (h *SignullHandler) DirectGuess(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.DirectGuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	attempt, updated, err := h.controller.SubmitDirectGuess(r.Context(), code, account.ID, req.Guess)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DirectGuessResponse{
		Correct:     attempt.Correct,
		GuessesLeft: updated.DirectGuessesLeft,
		Room:        response.RoomFromModel(updated),
	})
}
