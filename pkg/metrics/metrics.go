package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "beachdash"

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: subsystem,
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0},
		},
		[]string{"verb", "path", "code"},
	)

	sheetFetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "sheet_fetch_latency",
			Subsystem: subsystem,
			Help:      "Time to fetch one sheet, retries included, in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8, 25.6},
		},
		[]string{"sheet", "ok"},
	)

	skippedBeaches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:      "skipped_beaches_total",
			Subsystem: subsystem,
			Help:      "Beaches left off the map for lack of coordinates.",
		},
	)

	visitorRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "visitor_requests_total",
			Subsystem: subsystem,
			Help:      "Requests by whether the visitor has saved preferences.",
		},
		[]string{"known"},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		sheetFetchLatency,
		skippedBeaches,
		visitorRequests,
	)
}

func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

func ObserveSheetFetch(sheet string, ok bool, latency float64) {
	sheetFetchLatency.With(prometheus.Labels{
		"sheet": sheet,
		"ok":    strconv.FormatBool(ok),
	}).Observe(latency)
}

func ObserveSkippedBeach() {
	skippedBeaches.Inc()
}

func ObserveVisitor(known bool) {
	visitorRequests.WithLabelValues(strconv.FormatBool(known)).Inc()
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func LatencyHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		verb := r.Method
		path := ""
		if r.URL != nil {
			path = r.URL.Path
		}
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

		// Defer metric observing. Any panics in next are reported as 500 errors
		// and then re-thrown.
		defer func() {
			if err := recover(); err != nil {
				ObserveRequestLatency(verb, path, "500", time.Since(t).Seconds())
				panic(err)
			}
			ObserveRequestLatency(verb, path, strconv.Itoa(rec.code), time.Since(t).Seconds())
		}()

		next.ServeHTTP(rec, r)
	})
}
