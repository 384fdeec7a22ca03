package http

import (
	"net/http"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/application"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

func (h *Handler) handleListDiscussions(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := queryWindow(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	landmarkID, err := queryUint(r, "landmark_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	userID, err := queryUint(r, "user_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	onlyOpen, err := queryBool(r, "only_open")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := h.service.ListDiscussions(r.Context(), domain.DiscussionFilter{
		LandmarkID: landmarkID,
		City:       r.URL.Query().Get("city"),
		UserID:     userID,
		Search:     r.URL.Query().Get("search"),
		OnlyOpen:   boolOr(onlyOpen, false),
		Skip:       skip,
		Limit:      limit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) handleGetDiscussion(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	thread, err := h.service.GetDiscussion(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

func (h *Handler) handleListAnswers(w http.ResponseWriter, r *http.Request) {
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
	byHelpful, err := queryBool(r, "sort_by_helpful")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.service.ListAnswers(r.Context(), id, boolOr(byHelpful, false), application.Window{Skip: skip, Limit: limit})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateDiscussion(w http.ResponseWriter, r *http.Request) {
	var in application.DiscussionInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	d, err := h.service.CreateDiscussion(r.Context(), currentUser(r.Context()).ID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *Handler) handleUpdateDiscussion(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch domain.DiscussionPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	d, err := h.service.UpdateDiscussion(r.Context(), currentUser(r.Context()).ID, id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) handleDeleteDiscussion(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteDiscussion(r.Context(), currentUser(r.Context()).ID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Discussion deleted successfully"})
}

func (h *Handler) handleCreateAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in application.AnswerInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	a, err := h.service.CreateAnswer(r.Context(), currentUser(r.Context()).ID, id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) handleUpdateAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch domain.AnswerPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	a, err := h.service.UpdateAnswer(r.Context(), currentUser(r.Context()).ID, id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) handleDeleteAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteAnswer(r.Context(), currentUser(r.Context()).ID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Answer deleted successfully"})
}

func (h *Handler) handleVoteAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in struct {
		IsHelpful *bool `json:"is_helpful"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	if in.IsHelpful == nil {
		h.writeError(w, r, missingParam("is_helpful"))
		return
	}
	if _, err := h.service.VoteAnswer(r.Context(), id, *in.IsHelpful); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Vote counted"})
}
