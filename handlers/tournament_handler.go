package handlers

import (
	"net/http"
	"strconv"

	"github.com/arenapulse/esports-system/models"
	"github.com/arenapulse/esports-system/repositories"
	"github.com/arenapulse/esports-system/services"
	"github.com/go-chi/chi/v5"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(tournamentService services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, room, err := h.tournamentService.Create(r.Context(), authenticatedUserID(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament, "room": room}, nil)
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListTournamentsFilter{ActiveOnly: r.URL.Query().Get("all") == ""}
	if game := r.URL.Query().Get("game"); game != "" {
		g := models.GameType(game)
		filter.Game = &g
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		filter.Offset = offset
	}

	tournaments, err := h.tournamentService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil)
}

func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	tournament, err := h.tournamentService.Get(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	prizes, err := h.tournamentService.GetPrizeDistribution(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament, "prize_distribution": prizes}, nil)
}

func (h *TournamentHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input struct {
		Active bool `json:"active"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.SetActive(r.Context(), id, input.Active); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"id": id, "active": input.Active}, nil)
}

func (h *TournamentHandler) SetPrizes(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input struct {
		Prizes []services.PrizeInput `json:"prizes"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	prizes, err := h.tournamentService.SetPrizeDistribution(r.Context(), id, input.Prizes)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"prize_distribution": prizes}, nil)
}

func (h *TournamentHandler) Participants(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	participants, err := h.tournamentService.Participants(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil)
}

func tournamentIDParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "tournamentID"))
}
