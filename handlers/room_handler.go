package handlers

import (
	"net/http"

	"github.com/arenapulse/esports-system/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type RoomHandler struct {
	roomService services.RoomService
}

func NewRoomHandler(roomService services.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

func (h *RoomHandler) Detail(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	detail, err := h.roomService.RoomDetail(r.Context(), roomID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, detail, nil)
}

func (h *RoomHandler) JoinSolo(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	participant, err := h.roomService.JoinSolo(r.Context(), roomID, authenticatedUserID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}, nil)
}

func (h *RoomHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input struct {
		InviteeGameIDs []string `json:"invitee_game_ids"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	leader, invitations, err := h.roomService.CreateTeam(r.Context(), roomID, authenticatedUserID(r), input.InviteeGameIDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusCreated, jsonResponse{"participant": leader, "invitations": invitations}, nil)
}

func (h *RoomHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	invitationID, err := uuid.Parse(chi.URLParam(r, "invitationID"))
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	participant, err := h.roomService.AcceptInvitation(r.Context(), invitationID, authenticatedUserID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"participant": participant}, nil)
}

func (h *RoomHandler) RejectInvitation(w http.ResponseWriter, r *http.Request) {
	invitationID, err := uuid.Parse(chi.URLParam(r, "invitationID"))
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	if err := h.roomService.RejectInvitation(r.Context(), invitationID, authenticatedUserID(r)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"status": "rejected"}, nil)
}

func (h *RoomHandler) MyInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.roomService.MyInvitations(r.Context(), authenticatedUserID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"invitations": invitations}, nil)
}

func (h *RoomHandler) MyRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomService.MyRooms(r.Context(), authenticatedUserID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"rooms": rooms}, nil)
}

func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}
	if err := h.roomService.StartRoom(r.Context(), roomID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"status": "started"}, nil)
}

func (h *RoomHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}
	if err := h.roomService.CancelRoom(r.Context(), roomID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"status": "cancelled"}, nil)
}

func (h *RoomHandler) CreateEntryOrder(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDParam(r)
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	orderID, err := h.roomService.CreateEntryOrder(r.Context(), roomID, authenticatedUserID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusCreated, jsonResponse{"order_id": orderID}, nil)
}

func (h *RoomHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var input struct {
		OrderID   string `json:"order_id"`
		PaymentID string `json:"payment_id"`
		Signature string `json:"signature"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.roomService.VerifyGatewayPayment(r.Context(), input.OrderID, input.PaymentID, input.Signature)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"participant": participant}, nil)
}

func roomIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "roomID"))
}
