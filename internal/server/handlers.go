package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/AbdulWasayUl/country-cache-api/internal/logger"
	"github.com/AbdulWasayUl/country-cache-api/internal/store"
	"github.com/AbdulWasayUl/country-cache-api/models"
	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type refreshResponse struct {
	Count int `json:"count"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response: %v", err)
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	count, err := s.refresher.Refresh(r.Context())
	if err != nil {
		if errors.Is(err, models.ErrSourceUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{
				Error:   "External data source unavailable",
				Details: err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{Count: count})
}

func (s *Server) handleListCountries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.Filter{
		Region:   q.Get("region"),
		Currency: q.Get("currency"),
		Sort:     q.Get("sort"),
	}

	countries, err := s.countries.List(r.Context(), filter)
	if err != nil {
		logger.Error("List countries failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, countries)
}

func (s *Server) handleGetCountry(w http.ResponseWriter, r *http.Request) {
	name := pathName(r)

	country, err := s.countries.GetByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Country not found"})
			return
		}
		logger.Error("Get country %q failed: %v", name, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, country)
}

func (s *Server) handleDeleteCountry(w http.ResponseWriter, r *http.Request) {
	name := pathName(r)

	if err := s.countries.DeleteByName(r.Context(), name); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Country not found"})
			return
		}
		logger.Error("Delete country %q failed: %v", name, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.countries.Status(r.Context())
	if err != nil {
		logger.Error("Status read failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleSummaryImage(w http.ResponseWriter, r *http.Request) {
	if !s.images.Exists() {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Summary image not found"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, s.images.Path())
}

func pathName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}
