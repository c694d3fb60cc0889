package handlers

import (
	"net/http"
	"strconv"

	"github.com/arenapulse/esports-system/models"
	"github.com/arenapulse/esports-system/services"
	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	dashboardService services.DashboardService
	profileService   services.ProfileService
}

func NewAdminHandler(dashboardService services.DashboardService, profileService services.ProfileService) *AdminHandler {
	return &AdminHandler{
		dashboardService: dashboardService,
		profileService:   profileService,
	}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, stats, nil)
}

func (h *AdminHandler) SiteConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.dashboardService.SiteConfig(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, cfg, nil)
}

func (h *AdminHandler) PendingVerifications(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.ListPendingVerifications(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"profiles": profiles}, nil)
}

func (h *AdminHandler) VerifySection(w http.ResponseWriter, r *http.Request) {
	profileID, err := strconv.Atoi(chi.URLParam(r, "profileID"))
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input struct {
		Section models.VerificationSection `json:"section"`
		Status  models.VerificationStatus  `json:"status"`
		Reason  *string                    `json:"reason"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.profileService.VerifySection(r.Context(), profileID, input.Section, input.Status, input.Reason); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"profile_id": profileID, "section": input.Section, "status": input.Status}, nil)
}
