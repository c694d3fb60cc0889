package handlers

import (
	"net/http"

	"github.com/arenapulse/esports-system/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DepositHandler struct {
	depositService services.DepositService
}

func NewDepositHandler(depositService services.DepositService) *DepositHandler {
	return &DepositHandler{depositService: depositService}
}

func (h *DepositHandler) Request(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Amount    decimal.Decimal `json:"amount"`
		UTRNumber string          `json:"utr_number"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	deposit, err := h.depositService.Request(r.Context(), authenticatedUserID(r), input.Amount, input.UTRNumber)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusCreated, jsonResponse{"deposit": deposit}, nil)
}

func (h *DepositHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	deposits, err := h.depositService.ListPending(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"deposits": deposits}, nil)
}

func (h *DepositHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "depositID"))
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input struct {
		Approve   bool    `json:"approve"`
		AdminNote *string `json:"admin_note"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.depositService.Verify(r.Context(), id, input.Approve, input.AdminNote); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := "rejected"
	if input.Approve {
		status = "approved"
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"status": status}, nil)
}
