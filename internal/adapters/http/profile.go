package http

import (
	"net/http"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetUser(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProfilePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.service.UpdateProfile(r.Context(), currentUser(r.Context()).ID, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAccount(r.Context(), currentUser(r.Context()).ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Account deleted successfully"})
}

func (h *Handler) handleProfileStats(w http.ResponseWriter, r *http.Request) {
	h.writeUserStats(w, r, currentUser(r.Context()).ID)
}

func (h *Handler) handlePublicProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) handlePublicStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeUserStats(w, r, id)
}

func (h *Handler) writeUserStats(w http.ResponseWriter, r *http.Request, userID uint) {
	stats, err := h.service.UserStats(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
