package data

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	return NewGormStore(db)
}

func TestVisitorRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	pinned := time.Date(2026, time.August, 2, 15, 0, 0, 0, time.UTC)
	lat, lon := 47.64, -3.45
	v := &Visitor{PinnedAt: &pinned, Lat: &lat, Lon: &lon, Tracking: true}
	if err := s.Save(ctx, v); err != nil {
		t.Fatalf("save: %v", err)
	}
	if v.ID == 0 {
		t.Fatalf("save did not assign an id")
	}

	got, err := s.Visitor(ctx, v.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.PinnedAt.Equal(pinned) {
		t.Errorf("pinned at %v, want %v", got.PinnedAt, pinned)
	}
	if diff := cmp.Diff([]float64{*got.Lat, *got.Lon}, []float64{lat, lon}); diff != "" {
		t.Errorf("position (-got,+want):\n%s", diff)
	}
	if !got.Tracking {
		t.Errorf("tracking not saved")
	}

	got.PinnedAt = nil
	if err := s.Save(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, err := s.Visitor(ctx, v.ID)
	if err != nil || again.PinnedAt != nil {
		t.Errorf("unpin not saved: %v, %v", again, err)
	}
}

func TestVisitorNotFound(t *testing.T) {
	if _, err := newStore(t).Visitor(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("mysql", ""); err == nil {
		t.Errorf("expected error for unknown driver")
	}
}
