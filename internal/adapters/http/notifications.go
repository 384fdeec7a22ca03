package http

import (
	"fmt"
	"net/http"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/application"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := queryWindow(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	onlyUnread, err := queryBool(r, "only_unread")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	includeArchived, err := queryBool(r, "include_archived")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.service.ListNotifications(r.Context(), domain.NotificationFilter{
		UserID:          currentUser(r.Context()).ID,
		OnlyUnread:      boolOr(onlyUnread, false),
		IncludeArchived: boolOr(includeArchived, false),
		Skip:            skip,
		Limit:           limit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleNotificationStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.NotificationStats(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	var in application.MarkReadInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	n, err := h.service.MarkRead(r.Context(), currentUser(r.Context()).ID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated_count": n})
}

func (h *Handler) handleMarkOneRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.MarkOneRead(r.Context(), currentUser(r.Context()).ID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Notification marked as read"})
}

// handleArchiveNotifications takes a bare JSON array of ids.
func (h *Handler) handleArchiveNotifications(w http.ResponseWriter, r *http.Request) {
	var ids []uint
	if err := decodeJSON(w, r, &ids); err != nil {
		h.writeError(w, r, err)
		return
	}
	n, err := h.service.ArchiveNotifications(r.Context(), currentUser(r.Context()).ID, ids)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       fmt.Sprintf("Notifications archived: %d", n),
		"updated_count": n,
	})
}

func (h *Handler) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteNotification(r.Context(), currentUser(r.Context()).ID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Notification deleted"})
}

func (h *Handler) handleCleanupRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.CleanupReadNotifications(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       fmt.Sprintf("Deleted %d read notifications", n),
		"deleted_count": n,
	})
}

func (h *Handler) handleTestNotification(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.SendTestNotification(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":         "Test notification sent",
		"notification_id": n.ID,
	})
}
