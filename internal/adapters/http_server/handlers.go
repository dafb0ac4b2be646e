package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"travel_planner/internal/app"
	"travel_planner/internal/domain"
)

const maxBodyBytes = 64 << 10

type ItineraryGenerator interface {
	Generate(ctx context.Context, req domain.ItineraryRequest) domain.Itinerary
}

type Handlers struct{ Planner ItineraryGenerator }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/regions", h.listRegions)
	s.mux.Post("/v1/itineraries", h.createItinerary)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
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
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "response could not be encoded")
		return
	}
	if inm := r.Header.Get("If-None-Match"); r.Method == http.MethodGet && inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write response body")
	}
}

type regionsResponse struct {
	Regions []regionDTO `json:"regions"`
}

type regionDTO struct {
	Key    string            `json:"key"`
	Center domain.Coordinate `json:"center"`
}

func (h *Handlers) listRegions(w http.ResponseWriter, r *http.Request) {
	out := regionsResponse{Regions: []regionDTO{}}
	for _, k := range app.KnownRegions() {
		c, _ := app.RegionCenter(k)
		out.Regions = append(out.Regions, regionDTO{Key: k, Center: c})
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) createItinerary(w http.ResponseWriter, r *http.Request) {
	var in itineraryRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeProblem(w, http.StatusRequestEntityTooLarge, "Payload Too Large", "request body exceeds 64KiB")
		case errors.Is(err, io.EOF):
			writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body is empty")
		default:
			writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		}
		return
	}

	req, err := in.toDomain()
	if err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid Itinerary Request", err.Error())
		return
	}

	it := h.Planner.Generate(r.Context(), req)
	zerolog.Ctx(r.Context()).Info().
		Str("destination", req.Destination).
		Int("days", req.Days).
		Int("planned_days", len(it.Days)).
		Bool("degraded", it.Degraded).
		Msg("itinerary generated")
	if it.Degraded {
		w.Header().Set("Warning", `199 - "degraded itinerary: some entries are fallbacks"`)
	}
	writeJSON(w, r, http.StatusOK, toResponse(it))
}
