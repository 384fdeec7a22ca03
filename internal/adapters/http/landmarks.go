package http

import (
	"net/http"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/application"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

func (h *Handler) handleListLandmarks(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := queryWindow(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	page, err := h.service.ListLandmarks(r.Context(), domain.LandmarkFilter{
		City:     q.Get("city"),
		Country:  q.Get("country"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) handleNearbyLandmarks(w http.ResponseWriter, r *http.Request) {
	var in application.NearbyQuery
	for name, dst := range map[string]*float64{
		"latitude":  &in.Latitude,
		"longitude": &in.Longitude,
		"radius":    &in.RadiusKm,
	} {
		v, err := queryFloat(r, name)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if v != nil {
			*dst = *v
		}
	}
	for _, name := range []string{"latitude", "longitude"} {
		if !r.URL.Query().Has(name) {
			h.writeError(w, r, missingParam(name))
			return
		}
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	in.Limit = limit

	items, err := h.service.NearbyLandmarks(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGetLandmark(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	l, err := h.service.GetLandmark(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *Handler) handleCreateLandmark(w http.ResponseWriter, r *http.Request) {
	var in application.LandmarkInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	l, err := h.service.CreateLandmark(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *Handler) handleUpdateLandmark(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch domain.LandmarkPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	l, err := h.service.UpdateLandmark(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *Handler) handleDeleteLandmark(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteLandmark(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Landmark deleted successfully"})
}

func (h *Handler) handleListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.service.ListCities(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cities)
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.FilterOptions(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}
