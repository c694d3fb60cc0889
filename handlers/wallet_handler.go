package handlers

import (
	"net/http"
	"strconv"

	"github.com/arenapulse/esports-system/services"
)

type WalletHandler struct {
	walletService services.WalletService
}

func NewWalletHandler(walletService services.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.walletService.Balance(r.Context(), authenticatedUserID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"balance": balance}, nil)
}

func (h *WalletHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	transactions, err := h.walletService.ListTransactions(r.Context(), authenticatedUserID(r), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"transactions": transactions}, nil)
}
