package http

import (
	"net/http"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/application"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in application.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.service.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in application.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	tok, err := h.service.Login(r.Context(), in)
	if err != nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tok)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r.Context()))
}
