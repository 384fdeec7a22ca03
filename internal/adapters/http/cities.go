package http

import (
	"net/http"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/application"
)

func (h *Handler) handleCityProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.CityProfile(r.Context(), pathString(r, "city"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleCityStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.CityStats(r.Context(), pathString(r, "city"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handlePopularCities(w http.ResponseWriter, r *http.Request) {
	_, limit, err := queryWindow(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	cities, err := h.service.PopularCities(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cities)
}

func (h *Handler) handleCityLandmarks(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := queryWindow(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	minRating, err := queryFloat(r, "min_rating")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	hasImages, err := queryBool(r, "has_images")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := h.service.CityLandmarks(r.Context(), pathString(r, "city"), application.CityLandmarkQuery{
		Category:  r.URL.Query().Get("category"),
		MinRating: minRating,
		HasImages: hasImages,
		Window:    application.Window{Skip: skip, Limit: limit},
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) handleCityCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.CityCategories(r.Context(), pathString(r, "city"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) handleCityDiscussions(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := queryWindow(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	onlyOpen, err := queryBool(r, "only_open")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := h.service.CityDiscussions(r.Context(), pathString(r, "city"), boolOr(onlyOpen, false),
		application.Window{Skip: skip, Limit: limit})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) handleSearchCityLandmarks(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := queryWindow(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := h.service.SearchCityLandmarks(r.Context(), pathString(r, "city"), r.URL.Query().Get("search"),
		application.Window{Skip: skip, Limit: limit})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
