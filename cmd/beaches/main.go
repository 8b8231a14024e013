// Command beaches prints the beach ratings of the moment in a terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/spencer-p/beachdash/pkg/beaches"
	"github.com/spencer-p/beachdash/pkg/config"
	"github.com/spencer-p/beachdash/pkg/geo"
	"github.com/spencer-p/beachdash/pkg/meta"
	"github.com/spencer-p/beachdash/pkg/retry"
	"github.com/spencer-p/beachdash/pkg/session"
	"github.com/spencer-p/beachdash/pkg/sheets"
	"github.com/spencer-p/beachdash/pkg/sunset"
	"github.com/spencer-p/beachdash/pkg/timetricks"
)

func main() {
	date := flag.String("date", "", "day to show, YYYY-MM-DD")
	hour := flag.Int("hour", -1, "hour to show, 0-23")
	watch := flag.Bool("watch", false, "keep redrawing as time passes")
	track := flag.Bool("track", false, `read positions from stdin, one "lat,lon" per line`)
	flag.Parse()

	config.SetupEnvironment()
	env, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Bad configuration")
	}
	loc, _ := env.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	src, err := env.Source(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up sheets")
	}
	loader := sheets.NewLoader(src, retry.Sheets, env.Join(), loc, env.CacheTTL)
	d, err := loader.Dataset(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load data")
	}

	sess := session.New(loc)
	if *date != "" || *hour >= 0 {
		if err := pin(sess, *date, *hour); err != nil {
			log.Fatal().Err(err).Msg("Bad instant")
		}
	}

	v := &viewer{out: os.Stdout, data: d, sess: sess, place: env.Place()}
	v.draw()
	if !*watch && !*track {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	if *watch {
		g.Go(func() error {
			last := sess.Instant().Truncate(time.Minute)
			sess.Run(ctx, time.Second, func(t time.Time) {
				if m := t.Truncate(time.Minute); !m.Equal(last) {
					last = m
					v.draw()
				}
			})
			return nil
		})
	}
	if *track {
		tracker := session.NewTracker(sess, func(geo.Point) { v.draw() })
		fixes := make(chan session.Fix)
		go readFixes(ctx, os.Stdin, fixes)
		g.Go(func() error {
			err := tracker.Run(ctx, fixes)
			var gerr *session.GeolocationError
			if errors.As(err, &gerr) {
				log.Warn().Msg(gerr.Error())
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Send()
	}
}

// pin fixes sess to date at hour. Either may be omitted for today or midnight.
func pin(sess *session.Session, date string, hour int) error {
	day := sess.Instant()
	if date != "" {
		parsed, err := timetricks.ParseDay(date, sess.Location())
		if err != nil {
			return fmt.Errorf("date %q not in fmt YYYY-MM-DD", date)
		}
		day = parsed
	}
	if hour < 0 {
		hour = 0
	}
	return sess.Pin(day, hour)
}

// viewer redraws the screen from whichever goroutine has news.
type viewer struct {
	mu    sync.Mutex
	out   io.Writer
	data  *beaches.Dataset
	sess  *session.Session
	place sunset.Place
}

func (v *viewer) draw() {
	v.mu.Lock()
	defer v.mu.Unlock()

	c := meta.Conditions{Data: v.data, Instant: v.sess.Instant(), Place: v.place}
	bs := beaches.Clone(v.data.Beaches)
	if p, ok := v.sess.Position(); ok {
		beaches.AnnotateDistances(bs, p)
	}
	render(v.out, c, bs, v.sess.Pinned())
}

// readFixes turns lines of r into fixes until r ends or ctx is done. A line is
// "lat,lon" or "error:<cause>".
func readFixes(ctx context.Context, r io.Reader, fixes chan<- session.Fix) {
	defer close(fixes)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fix, err := parseFix(line)
		if err != nil {
			log.Warn().Err(err).Msg("Ignoring position")
			continue
		}
		select {
		case fixes <- fix:
		case <-ctx.Done():
			return
		}
	}
}

func parseFix(line string) (session.Fix, error) {
	if cause, ok := strings.CutPrefix(line, "error:"); ok {
		c, err := session.ParseCause(cause)
		if err != nil {
			return session.Fix{}, err
		}
		return session.Fix{Err: &session.GeolocationError{Cause: c}}, nil
	}
	lat, lon, ok := strings.Cut(line, ",")
	if !ok {
		return session.Fix{}, fmt.Errorf("%q is not lat,lon", line)
	}
	var p geo.Point
	var err error
	if p.Lat, err = strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
		return session.Fix{}, fmt.Errorf("bad latitude in %q", line)
	}
	if p.Lon, err = strconv.ParseFloat(strings.TrimSpace(lon), 64); err != nil {
		return session.Fix{}, fmt.Errorf("bad longitude in %q", line)
	}
	if !p.Valid() {
		return session.Fix{}, fmt.Errorf("position %s is not valid", p)
	}
	return session.Fix{Point: p}, nil
}
