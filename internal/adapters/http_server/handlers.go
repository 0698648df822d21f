package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tripsmith/internal/app"
	"tripsmith/internal/domain"
	"tripsmith/internal/trip"
)

type Handlers struct {
	Q *app.QueryService
	P *app.PlanService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/trips", h.createTrip)
	s.mux.Get("/v1/trips", h.listTrips)
	s.mux.Get("/v1/trips/{id}", h.getTrip)
	s.mux.Delete("/v1/trips/{id}", h.deleteTrip)
	s.mux.Get("/v1/trips/{id}/itinerary", h.getItinerary)
	s.mux.Get("/v1/trips/{id}/hotels", h.getHotels)
	s.mux.Get("/v1/trips/{id}/cover", h.getCover)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps pipeline errors onto problem responses. Parse failures
// surface as the generic "could not read trip information" state; the
// cause stays in the logs.
func writeError(w http.ResponseWriter, err error) {
	var pe *trip.ParseError
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "trip not found")
	case errors.As(err, &pe):
		writeProblem(w, http.StatusUnprocessableEntity, "Unreadable Trip Data", "could not read trip information")
	case errors.As(err, &ve):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", ve.Error())
	default:
		writeProblem(w, http.StatusBadGateway, "Upstream Failure", "the operation could not be completed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

type createTripRequest struct {
	UserEmail   string `json:"userEmail"`
	Destination string `json:"destination"`
	Days        int    `json:"days"`
	Budget      string `json:"budget"`
	Travelers   string `json:"travelers"`
}

func (h *Handlers) createTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be JSON")
		return
	}
	rec, err := h.P.CreateTrip(r.Context(), req.UserEmail, domain.TripSelection{
		Destination: req.Destination,
		Days:        req.Days,
		Budget:      req.Budget,
		Travelers:   req.Travelers,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, rec)
}

func (h *Handlers) listTrips(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("userEmail")
	if email == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "userEmail query parameter is required")
		return
	}
	trips, err := h.Q.ListTrips(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	if trips == nil {
		trips = []domain.TripRecord{}
	}
	writeJSON(w, r, http.StatusOK, trips)
}

func (h *Handlers) getTrip(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Q.GetTrip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func (h *Handlers) deleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := h.P.DeleteTrip(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getItinerary(w http.ResponseWriter, r *http.Request) {
	days, err := h.Q.GetItinerary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, days)
}

func (h *Handlers) getHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.Q.GetHotels(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, hotels)
}

func (h *Handlers) getCover(w http.ResponseWriter, r *http.Request) {
	url, err := h.Q.GetCoverImage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"coverImageUrl": url})
}
