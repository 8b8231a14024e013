package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/spencer-p/beachdash/pkg/beaches"
	"github.com/spencer-p/beachdash/pkg/data"
	"github.com/spencer-p/beachdash/pkg/geo"
	"github.com/spencer-p/beachdash/pkg/meta"
	"github.com/spencer-p/beachdash/pkg/metrics"
	"github.com/spencer-p/beachdash/pkg/session"
	"github.com/spencer-p/beachdash/pkg/sunset"
)

const (
	sessionName = "beachdash"
	userID      = "userid"
	// See https://developer.chrome.com/blog/cookie-max-age-expires.
	defaultMaxAge = 60 * 60 * 24 * 400 // 400 days in seconds.
)

// Loader supplies the current dataset.
type Loader interface {
	Dataset(ctx context.Context) (*beaches.Dataset, error)
}

// Server answers the map's API. Visitors are remembered with a cookie holding
// their id in Visitors.
type Server struct {
	loader   Loader
	visitors data.Store
	place    sunset.Place
	cookies  sessions.Store
	now      func() time.Time
}

func NewServer(loader Loader, visitors data.Store, place sunset.Place, hashKey, blockKey []byte, secure bool) *Server {
	store := &sessions.CookieStore{
		Codecs: securecookie.CodecsFromPairs(hashKey, blockKey),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   defaultMaxAge,
			Secure:   secure,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
	store.MaxAge(defaultMaxAge)
	return &Server{
		loader:   loader,
		visitors: visitors,
		place:    place,
		cookies:  store,
		now:      time.Now,
	}
}

func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/", s.serveIndex).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/beaches", s.serveBeaches).Methods(http.MethodGet)
	api.HandleFunc("/tides", s.serveTides).Methods(http.MethodGet)
	api.HandleFunc("/goodtimes", s.serveGoodTimes).Methods(http.MethodGet)
	api.HandleFunc("/instant", s.serveInstant).Methods(http.MethodGet)
	api.HandleFunc("/instant", s.pinInstant).Methods(http.MethodPost)
	api.HandleFunc("/instant", s.resetInstant).Methods(http.MethodDelete)
	api.HandleFunc("/location", s.deliverLocation).Methods(http.MethodPost)
	api.HandleFunc("/location", s.stopTracking).Methods(http.MethodDelete)

	r.Handle("/metrics", promhttp.Handler())
}

// visit is one request's view of a visitor.
type visit struct {
	session *session.Session
	visitor *data.Visitor
	cookie  *sessions.Session
}

// open restores the session of whoever sent r. Unknown or unreadable cookies
// start a fresh live session.
func (s *Server) open(r *http.Request) *visit {
	cookie, err := s.cookies.Get(r, sessionName)
	if err != nil {
		log.Debug().Err(err).Msg("Discarding unreadable session cookie")
	}

	v := &data.Visitor{}
	if id, ok := cookie.Values[userID].(uint); ok {
		found, err := s.visitors.Visitor(r.Context(), id)
		switch {
		case err == nil:
			v = found
		case errors.Is(err, data.ErrNotFound):
			log.Debug().Uint("visitor", id).Msg("Cookie names an unknown visitor")
		default:
			log.Error().Err(err).Uint("visitor", id).Msg("Failed to load visitor")
		}
	}
	metrics.ObserveVisitor(v.ID != 0)

	sess := session.NewWithClock(s.place.Location, s.now)
	if v.PinnedAt != nil {
		sess.PinAt(*v.PinnedAt)
	}
	if v.Lat != nil && v.Lon != nil {
		sess.SetPosition(geo.Point{Lat: *v.Lat, Lon: *v.Lon})
	}
	sess.SetTracking(v.Tracking)
	return &visit{session: sess, visitor: v, cookie: cookie}
}

// save writes the session back to the visitor and sets the cookie. It must be
// called before anything is written to w.
func (s *Server) save(w http.ResponseWriter, r *http.Request, vis *visit) error {
	v := vis.visitor
	v.PinnedAt = nil
	if vis.session.Pinned() {
		t := vis.session.Instant()
		v.PinnedAt = &t
	}
	v.Lat, v.Lon = nil, nil
	if p, ok := vis.session.Position(); ok {
		v.Lat, v.Lon = &p.Lat, &p.Lon
	}
	v.Tracking = vis.session.Tracking()
	v.LastSeen = s.now()

	if err := s.visitors.Save(r.Context(), v); err != nil {
		return fmt.Errorf("failed to save visitor: %w", err)
	}
	vis.cookie.Values[userID] = v.ID
	return vis.cookie.Save(r, w)
}

// conditions loads the dataset for the visit's instant. On failure the error
// response has already been written.
func (s *Server) conditions(w http.ResponseWriter, r *http.Request, vis *visit) (meta.Conditions, bool) {
	d, err := s.loader.Dataset(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load data")
		http.Error(w, "cannot load data", http.StatusServiceUnavailable)
		return meta.Conditions{}, false
	}
	return meta.Conditions{
		Data:    d,
		Instant: vis.session.Instant(),
		Place:   s.place,
	}, true
}

// located copies the dataset's beaches with distances from the visitor, if
// their position is known.
func located(c meta.Conditions, vis *visit) []beaches.Beach {
	bs := beaches.Clone(c.Data.Beaches)
	if p, ok := vis.session.Position(); ok {
		beaches.AnnotateDistances(bs, p)
	}
	return bs
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON result")
	}
}

func badRequest(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusBadRequest)
}
