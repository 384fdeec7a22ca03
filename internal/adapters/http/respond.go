package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/logging"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/validation"
)

const maxBodyBytes = 1 << 20

var errorStatuses = []struct {
	kind   error
	status int
}{
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrConflict, http.StatusConflict},
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps an error kind to its status. Unknown errors become a bare
// 500 and are only logged.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range errorStatuses {
		if !errors.Is(err, e.kind) {
			continue
		}
		body := map[string]any{"error": clientMessage(err, e.kind)}
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			body["fields"] = verr.Fields
		}
		logging.Ctx(r.Context()).Debug().Err(err).Int("status", e.status).Msg("request rejected")
		writeJSON(w, e.status, body)
		return
	}
	logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal server error"})
}

func clientMessage(err, kind error) string {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return derr.Message
	}
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	return kind.Error()
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Errorf(domain.ErrValidation, "invalid JSON payload")
	}
	return nil
}

func invalidParam(name, expected string) error {
	return &validation.RequestValidationError{Fields: []validation.FieldError{{
		Field:   name,
		Tag:     "type",
		Message: "must be " + expected,
	}}}
}

func missingParam(name string) error {
	return &validation.RequestValidationError{Fields: []validation.FieldError{{
		Field:   name,
		Tag:     "required",
		Message: "is required",
	}}}
}

func pathUint(r *http.Request, name string) (uint, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || v == 0 {
		return 0, invalidParam(name, "a positive integer")
	}
	return uint(v), nil
}

// pathString returns a decoded path parameter such as a city name.
func pathString(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(name, "an integer")
	}
	return v, nil
}

func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, invalidParam(name, "a number")
	}
	return &v, nil
}

func queryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, invalidParam(name, "a boolean")
	}
	return &v, nil
}

func queryUint(r *http.Request, name string) (*uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, invalidParam(name, "a non-negative integer")
	}
	u := uint(v)
	return &u, nil
}

// queryWindow reads skip and limit; a missing limit stays zero so the
// service applies the endpoint default.
func queryWindow(r *http.Request) (skip, limit int, err error) {
	if skip, err = queryInt(r, "skip"); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(r, "limit"); err != nil {
		return 0, 0, err
	}
	if r.URL.Query().Has("limit") && limit == 0 {
		return 0, 0, &validation.RequestValidationError{Fields: []validation.FieldError{{
			Field:   "limit",
			Tag:     "gte",
			Message: "must be greater than or equal to 1",
		}}}
	}
	return skip, limit, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
