package handlers

import (
	"net/http"

	"github.com/arenapulse/esports-system/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalHandler struct {
	withdrawalService services.WithdrawalService
}

func NewWithdrawalHandler(withdrawalService services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

func (h *WithdrawalHandler) Request(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Amount      decimal.Decimal `json:"amount"`
		UPIID       *string         `json:"upi_id"`
		BankDetails *string         `json:"bank_details"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	withdrawal, err := h.withdrawalService.Request(r.Context(), authenticatedUserID(r), input.Amount, input.UPIID, input.BankDetails)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusCreated, jsonResponse{"withdrawal": withdrawal}, nil)
}

func (h *WithdrawalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.withdrawalService.ListMine(r.Context(), authenticatedUserID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"withdrawals": withdrawals}, nil)
}

func (h *WithdrawalHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.withdrawalService.ListAll(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"withdrawals": withdrawals}, nil)
}

func (h *WithdrawalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := withdrawalIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input struct {
		AdminNote *string `json:"admin_note"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.withdrawalService.Approve(r.Context(), id, input.AdminNote); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"status": "approved"}, nil)
}

func (h *WithdrawalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := withdrawalIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input struct {
		AdminNote *string `json:"admin_note"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.withdrawalService.Reject(r.Context(), id, input.AdminNote); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"status": "rejected"}, nil)
}

func (h *WithdrawalHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := withdrawalIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input struct {
		PayoutID string `json:"payout_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.withdrawalService.MarkPaid(r.Context(), id, input.PayoutID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"status": "paid"}, nil)
}

func withdrawalIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "withdrawalID"))
}
