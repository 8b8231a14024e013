package sheets

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spencer-p/beachdash/pkg/beaches"
	"github.com/spencer-p/beachdash/pkg/table"
)

// countingSource counts how often each sheet is read.
type countingSource struct {
	fakeSource
	reads atomic.Int32
}

func (c *countingSource) Rows(ctx context.Context, sheet Sheet) ([]table.Row, error) {
	c.reads.Add(1)
	return c.fakeSource.Rows(ctx, sheet)
}

func testRows() map[Sheet][]table.Row {
	return map[Sheet][]table.Row{
		Beaches:         {{"Nom": "Port Lay", "Latitude": "47.6453", "Longitude": "-3.4602"}},
		Weather:         {{"direction_vent": "SO"}},
		Tides:           {{"date": "2026-02-20", "bm1": "00:12", "pm1": "06:13"}},
		Recommendations: {{"couleur": "Vert"}},
	}
}

func TestLoaderCaches(t *testing.T) {
	src := &countingSource{fakeSource: fakeSource{rows: testRows()}}
	l := NewLoader(src, quick, beaches.ByPosition, time.UTC, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Dataset(context.Background()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	d, err := l.Dataset(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := src.reads.Load(); got > 8 {
		t.Errorf("sheets read %d times, concurrent loads were not shared", got)
	}
	if len(d.Beaches) != 1 || d.Beaches[0].RecommendationColor != "green" {
		t.Errorf("unexpected dataset: %+v", d.Beaches)
	}

	before := src.reads.Load()
	l.Invalidate()
	if _, err := l.Dataset(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := src.reads.Load() - before; got != int32(len(All)) {
		t.Errorf("reload read %d sheets, want %d", got, len(All))
	}
}

func TestLoaderDoesNotCacheErrors(t *testing.T) {
	src := &fakeSource{rows: testRows(), broken: map[Sheet]error{Tides: errors.New("offline")}}
	l := NewLoader(src, quick, beaches.ByPosition, time.UTC, time.Hour)

	_, err := l.Dataset(context.Background())
	var derr *beaches.DataError
	if !errors.As(err, &derr) {
		t.Fatalf("got %v, want a DataError", err)
	}

	src.broken = nil
	if _, err := l.Dataset(context.Background()); err != nil {
		t.Errorf("recovered source still fails: %v", err)
	}
}

// gatedSource blocks every read until release is closed or the read's
// context ends.
type gatedSource struct {
	fakeSource
	started chan struct{}
	once    sync.Once
	release chan struct{}
}

func (g *gatedSource) Rows(ctx context.Context, sheet Sheet) ([]table.Row, error) {
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
		return g.fakeSource.Rows(ctx, sheet)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestLoaderSurvivesCancelledCaller(t *testing.T) {
	src := &gatedSource{
		fakeSource: fakeSource{rows: testRows()},
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	l := NewLoader(src, quick, beaches.ByPosition, time.UTC, time.Hour)

	first, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Dataset(first)
	<-src.started

	errs := make(chan error, 1)
	go func() {
		_, err := l.Dataset(context.Background())
		errs <- err
	}()

	// Let the second caller join the load in flight.
	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)
	close(src.release)

	select {
	case err := <-errs:
		if err != nil {
			t.Errorf("second caller failed after the first gave up: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("second caller never returned")
	}
}
