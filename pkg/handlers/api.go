package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/spencer-p/beachdash/pkg/beaches"
	"github.com/spencer-p/beachdash/pkg/geo"
	"github.com/spencer-p/beachdash/pkg/meta"
	"github.com/spencer-p/beachdash/pkg/session"
	"github.com/spencer-p/beachdash/pkg/timetricks"
	"github.com/spencer-p/beachdash/pkg/visualize"
)

// serveIndex lists every beach as plain text.
func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	vis := s.open(r)
	c, ok := s.conditions(w, r, vis)
	if !ok {
		return
	}
	markers := meta.Markers(c, located(c, vis))
	meta.SortByDistance(markers)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "%s, %s\n", c.Instant.Format("Mon 02 Jan 15:04"), c.Data.Tides.Reading(c.Instant))
	for _, m := range markers {
		dist := ""
		if m.DistanceKm != nil {
			dist = fmt.Sprintf(", %.1f km", *m.DistanceKm)
		}
		fmt.Fprintf(w, "%s: %s (%.0f, %s)%s\n", m.Name, m.Color, m.Score, m.Source, dist)
	}
}

type beachesResponse struct {
	Instant time.Time       `json:"instant"`
	Pinned  bool            `json:"pinned"`
	Weather beaches.Weather `json:"weather"`
	Beaches []meta.Marker   `json:"beaches"`
}

// serveBeaches returns the markers at the visitor's instant, or the enriched
// beach table as CSV with ?o=csv.
func (s *Server) serveBeaches(w http.ResponseWriter, r *http.Request) {
	vis := s.open(r)
	c, ok := s.conditions(w, r, vis)
	if !ok {
		return
	}
	bs := located(c, vis)

	if r.FormValue("o") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="beaches.csv"`)
		if err := beaches.WriteCSV(w, bs); err != nil {
			log.Error().Err(err).Msg("Failed to write CSV")
		}
		return
	}

	markers := meta.Markers(c, bs)
	meta.SortByDistance(markers)
	writeJSON(w, http.StatusOK, beachesResponse{
		Instant: c.Instant,
		Pinned:  vis.session.Pinned(),
		Weather: c.Data.Weather,
		Beaches: markers,
	})
}

// serveTides returns the tide chart of ?date, or of the visitor's day.
func (s *Server) serveTides(w http.ResponseWriter, r *http.Request) {
	vis := s.open(r)
	c, ok := s.conditions(w, r, vis)
	if !ok {
		return
	}
	if raw := r.FormValue("date"); raw != "" {
		day, err := timetricks.ParseDay(raw, s.place.Location)
		if err != nil {
			badRequest(w, fmt.Errorf("date %q not in fmt YYYY-MM-DD", raw))
			return
		}
		c.Instant = day
	}
	chart := meta.ChartFor(c)

	if r.FormValue("o") == "svg" {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		if _, err := visualize.NewTidal(chart).Encode(w); err != nil {
			log.Error().Err(err).Msg("Failed to draw tides")
		}
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

// serveGoodTimes lists upcoming windows, as text or with ?o=json.
func (s *Server) serveGoodTimes(w http.ResponseWriter, r *http.Request) {
	vis := s.open(r)
	c, ok := s.conditions(w, r, vis)
	if !ok {
		return
	}
	opts := meta.Options{Beach: r.FormValue("beach")}
	if raw := r.FormValue("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(w, fmt.Errorf("days %q is not a number", raw))
			return
		}
		opts.Days = days
	}

	goodTimes, err := meta.GoodTimes(c, opts)
	if errors.Is(err, meta.ErrUnknownBeach) {
		http.Error(w, fmt.Sprintf("no beach named %q", opts.Beach), http.StatusNotFound)
		return
	} else if err != nil {
		log.Error().Err(err).Msg("Failed to find good times")
		http.Error(w, "cannot compute good times", http.StatusInternalServerError)
		return
	}

	if r.FormValue("o") == "json" {
		writeJSON(w, http.StatusOK, goodTimes)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	for _, gt := range goodTimes {
		fmt.Fprintf(w, "%s\n", gt.String())
	}
}

type instantResponse struct {
	Instant time.Time `json:"instant"`
	Day     string    `json:"day"`
	Pinned  bool      `json:"pinned"`
}

func (s *Server) writeInstant(w http.ResponseWriter, sess *session.Session) {
	writeJSON(w, http.StatusOK, instantResponse{
		Instant: sess.Instant(),
		Day:     sess.Day(),
		Pinned:  sess.Pinned(),
	})
}

func (s *Server) serveInstant(w http.ResponseWriter, r *http.Request) {
	s.writeInstant(w, s.open(r).session)
}

// pinInstant fixes the visitor to ?date at ?hour.
func (s *Server) pinInstant(w http.ResponseWriter, r *http.Request) {
	vis := s.open(r)

	day := vis.session.Instant()
	if raw := r.FormValue("date"); raw != "" {
		parsed, err := timetricks.ParseDay(raw, s.place.Location)
		if err != nil {
			badRequest(w, fmt.Errorf("date %q not in fmt YYYY-MM-DD", raw))
			return
		}
		day = parsed
	}
	hour, err := strconv.Atoi(r.FormValue("hour"))
	if err != nil {
		badRequest(w, fmt.Errorf("hour %q is not a number", r.FormValue("hour")))
		return
	}
	if err := vis.session.Pin(day, hour); err != nil {
		badRequest(w, err)
		return
	}

	if !s.saveOrFail(w, r, vis) {
		return
	}
	s.writeInstant(w, vis.session)
}

// resetInstant returns the visitor to the live clock.
func (s *Server) resetInstant(w http.ResponseWriter, r *http.Request) {
	vis := s.open(r)
	vis.session.Unpin()
	if !s.saveOrFail(w, r, vis) {
		return
	}
	s.writeInstant(w, vis.session)
}

type locationResponse struct {
	Tracking bool       `json:"tracking"`
	Position *geo.Point `json:"position,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// deliverLocation takes one fix from the browser: ?lat and ?lon, or ?error
// naming why the position is unavailable.
func (s *Server) deliverLocation(w http.ResponseWriter, r *http.Request) {
	vis := s.open(r)

	fix, err := fixFromRequest(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	if fix.Err == nil {
		vis.session.SetTracking(true)
	}
	report := vis.session.Deliver(fix)

	if !s.saveOrFail(w, r, vis) {
		return
	}
	resp := locationResponse{Tracking: vis.session.Tracking()}
	if p, ok := vis.session.Position(); ok {
		resp.Position = &p
	}
	if report != nil {
		resp.Error = report.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func fixFromRequest(r *http.Request) (session.Fix, error) {
	if raw := r.FormValue("error"); raw != "" {
		cause, err := session.ParseCause(raw)
		if err != nil {
			return session.Fix{}, err
		}
		return session.Fix{Err: &session.GeolocationError{Cause: cause}}, nil
	}
	lat, err := strconv.ParseFloat(r.FormValue("lat"), 64)
	if err != nil {
		return session.Fix{}, fmt.Errorf("lat %q is not a number", r.FormValue("lat"))
	}
	lon, err := strconv.ParseFloat(r.FormValue("lon"), 64)
	if err != nil {
		return session.Fix{}, fmt.Errorf("lon %q is not a number", r.FormValue("lon"))
	}
	p := geo.Point{Lat: lat, Lon: lon}
	if !p.Valid() {
		return session.Fix{}, fmt.Errorf("position %s is not valid", p)
	}
	return session.Fix{Point: p}, nil
}

// stopTracking forgets the visitor's position.
func (s *Server) stopTracking(w http.ResponseWriter, r *http.Request) {
	vis := s.open(r)
	vis.session.SetTracking(false)
	vis.session.ClearPosition()
	if !s.saveOrFail(w, r, vis) {
		return
	}
	writeJSON(w, http.StatusOK, locationResponse{})
}

func (s *Server) saveOrFail(w http.ResponseWriter, r *http.Request, vis *visit) bool {
	if err := s.save(w, r, vis); err != nil {
		log.Error().Err(err).Msg("Failed to save session")
		http.Error(w, "cannot save preferences", http.StatusInternalServerError)
		return false
	}
	return true
}
