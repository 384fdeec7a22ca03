package http

import (
	"net/http"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/application"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

func (h *Handler) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := queryWindow(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.service.ListFavorites(r.Context(), currentUser(r.Context()).ID, application.Window{Skip: skip, Limit: limit})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var in struct {
		LandmarkID uint `json:"landmark_id"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	if in.LandmarkID == 0 {
		h.writeError(w, r, missingParam("landmark_id"))
		return
	}
	fav, err := h.service.AddFavorite(r.Context(), currentUser(r.Context()).ID, in.LandmarkID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fav)
}

func (h *Handler) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "landmark_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.RemoveFavorite(r.Context(), currentUser(r.Context()).ID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Removed from favorites"})
}

func (h *Handler) handleCheckFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "landmark_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ok, err := h.service.IsFavorite(r.Context(), currentUser(r.Context()).ID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"is_favorite": ok})
}

func (h *Handler) handleListLandmarkReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	skip, limit, err := queryWindow(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.service.ListLandmarkReviews(r.Context(), id, application.Window{Skip: skip, Limit: limit})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleReviewSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	summary, err := h.service.ReviewSummary(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleListUserReviews(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := queryWindow(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.service.ListUserReviews(r.Context(), currentUser(r.Context()).ID, application.Window{Skip: skip, Limit: limit})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleSaveReview answers 201 whether the review was new or overwritten.
func (h *Handler) handleSaveReview(w http.ResponseWriter, r *http.Request) {
	var in application.ReviewInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	review, _, err := h.service.SaveReview(r.Context(), currentUser(r.Context()).ID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "landmark_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch domain.ReviewPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	review, err := h.service.UpdateReview(r.Context(), currentUser(r.Context()).ID, id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *Handler) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "landmark_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteReview(r.Context(), currentUser(r.Context()).ID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Review deleted successfully"})
}
