package handlers

import (
	"net/http"

	"github.com/arenapulse/esports-system/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SettlementHandler struct {
	settlementService services.SettlementService
}

func NewSettlementHandler(settlementService services.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

func (h *SettlementHandler) DeclareResults(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input struct {
		Results []services.ResultEntry `json:"results"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.settlementService.DeclareResults(r.Context(), roomID, input.Results); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"status": "declared"}, nil)
}

func (h *SettlementHandler) ApprovePayouts(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	count, err := h.settlementService.ApprovePayouts(r.Context(), roomID, authenticatedUserID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"paid": count}, nil)
}

func (h *SettlementHandler) AddSingleWinner(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input struct {
		ParticipantID uuid.UUID        `json:"participant_id"`
		Rank          int              `json:"rank"`
		Amount        *decimal.Decimal `json:"amount"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.settlementService.AddSingleWinner(r.Context(), roomID, input.ParticipantID, input.Rank, input.Amount, authenticatedUserID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusCreated, jsonResponse{"result": result}, nil)
}

func (h *SettlementHandler) RoomResults(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	results, err := h.settlementService.RoomResults(r.Context(), roomID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	pool, err := h.settlementService.TotalPrizePool(r.Context(), roomID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, jsonResponse{"results": results, "prize_pool": pool}, nil)
}

func (h *SettlementHandler) PendingPayouts(w http.ResponseWriter, r *http.Request) {
	results, err := h.settlementService.PendingPayouts(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"results": results}, nil)
}
