// Package server implements the tzserve HTTP API.
//
// Routes:
//
//	GET /healthz                liveness probe
//	GET /v1/resolve?at=&zone=   resolve a timestamp into local time
//	GET /v1/zones/{name}        describe a zone and its transitions
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/wallclock/zoned/internal/zonecache"
	"github.com/wallclock/zoned/tzdir"
	"github.com/wallclock/zoned/tzdist"
	"github.com/wallclock/zoned/zone"
)

// Server resolves zones over HTTP. Construct with New.
type Server struct {
	log   zerolog.Logger
	cache *zonecache.Cache
}

// New returns a server answering from the given cache.
func New(log zerolog.Logger, cache *zonecache.Cache) *Server {
	return &Server{log: log, cache: cache}
}

// Router assembles the middleware chain and routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/resolve", s.handleResolve)
	// Zone names contain slashes, so the route is a catch-all.
	r.Get("/v1/zones/*", s.handleZone)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

type resolveResponse struct {
	Input   string `json:"input"`
	Zone    string `json:"zone"`
	Local   string `json:"local"`
	Weekday string `json:"weekday"`
	YearDay int    `json:"year_day"`
}

// handleResolve parses the at parameter as an ISO 8601 timestamp and
// reports the local time its zone observes. An optional zone
// parameter, either a designator such as "+05:30" or a name such as
// "Europe/Berlin", overrides the designator embedded in at.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	at := r.URL.Query().Get("at")
	if at == "" {
		s.writeError(w, r, http.StatusBadRequest, "missing_parameter", "query parameter at is required")
		return
	}

	paired, err := zone.ParseDateTime(at)
	if err != nil {
		s.writeParseError(w, r, err)
		return
	}

	if name := r.URL.Query().Get("zone"); name != "" {
		z, err := s.zoneFor(name)
		if err != nil {
			s.writeZoneError(w, r, err)
			return
		}
		paired = z.At(paired.Naive())
	}

	s.writeJSON(w, r, http.StatusOK, resolveResponse{
		Input:   at,
		Zone:    paired.Zone().String(),
		Local:   paired.Local().String(),
		Weekday: paired.Weekday().String(),
		YearDay: paired.YearDay(),
	})
}

type transitionJSON struct {
	Timestamp     int64  `json:"timestamp"`
	OffsetSeconds int32  `json:"offset_seconds"`
	Designation   string `json:"designation"`
	DST           bool   `json:"dst"`
}

type zoneResponse struct {
	Name        string           `json:"name"`
	Zone        string           `json:"zone"`
	Transitions []transitionJSON `json:"transitions"`
}

func (s *Server) handleZone(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	z, err := s.cache.Get(name)
	if err != nil {
		s.writeZoneError(w, r, err)
		return
	}

	ts := z.Transitions()
	out := make([]transitionJSON, len(ts))
	for i, tr := range ts {
		out[i] = transitionJSON{
			Timestamp:     tr.Timestamp,
			OffsetSeconds: tr.OffsetSeconds,
			Designation:   tr.Designation,
			DST:           tr.DST,
		}
	}
	s.writeJSON(w, r, http.StatusOK, zoneResponse{Name: name, Zone: z.String(), Transitions: out})
}

// zoneFor resolves a designator or a zone name. Designators parse
// directly; anything the grammar rejects is treated as a name and
// looked up through the cache.
func (s *Server) zoneFor(arg string) (zone.Zone, error) {
	z, err := zone.Parse(arg)
	if err == nil {
		return z, nil
	}
	var pe *zone.ParseError
	if errors.As(err, &pe) && pe.Kind != zone.ParseSyntax {
		// It was a designator, just an invalid one.
		return zone.Zone{}, err
	}
	return s.cache.Get(arg)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeParseError(w http.ResponseWriter, r *http.Request, err error) {
	code := "bad_request"
	var pe *zone.ParseError
	if errors.As(err, &pe) {
		code = "invalid_" + pe.Kind.String()
	}
	s.writeError(w, r, http.StatusBadRequest, code, err.Error())
}

func (s *Server) writeZoneError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tzdir.ErrNotFound), errors.Is(err, tzdist.ErrUnknownZone):
		s.writeError(w, r, http.StatusNotFound, "zone_not_found", err.Error())
	case errors.Is(err, tzdir.ErrBadName):
		s.writeError(w, r, http.StatusBadRequest, "invalid_zone", err.Error())
	default:
		var pe *zone.ParseError
		if errors.As(err, &pe) {
			s.writeError(w, r, http.StatusBadRequest, "invalid_zone", err.Error())
			return
		}
		s.log.Error().Err(err).Str("request_id", chimiddleware.GetReqID(r.Context())).Msg("zone load failed")
		s.writeError(w, r, http.StatusInternalServerError, "internal", "could not load zone")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	s.writeJSON(w, r, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Str("request_id", chimiddleware.GetReqID(r.Context())).Msg("write response")
	}
}
