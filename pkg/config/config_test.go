package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spencer-p/beachdash/pkg/beaches"
	"github.com/spencer-p/beachdash/pkg/sheets"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Port != "8080" || c.Prefix != "/" {
		t.Errorf("got port %q prefix %q", c.Port, c.Prefix)
	}
	if c.CacheTTL != 5*time.Minute {
		t.Errorf("cache ttl = %s", c.CacheTTL)
	}
	if c.Join() != beaches.ByPosition {
		t.Errorf("join = %s", c.Join())
	}
	want := map[sheets.Sheet]int{
		sheets.Beaches:         0,
		sheets.Weather:         146047806,
		sheets.Tides:           138428367,
		sheets.Recommendations: 2049933385,
	}
	if diff := cmp.Diff(c.GIDs(), want); diff != "" {
		t.Errorf("gids (-got,+want):\n%s", diff)
	}
	if !strings.HasPrefix(c.SheetURL, "https://docs.google.com/spreadsheets/d/e/") || !strings.HasSuffix(c.SheetURL, "/pub?output=csv") {
		t.Errorf("sheet url = %s", c.SheetURL)
	}

	src, err := c.Source(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := src.(*sheets.Published); !ok {
		t.Errorf("got %T, want the published export", src)
	}

	p := c.Place()
	if p.Lat != 47.6389 || p.Long != -3.4523 || p.Location.String() != "Europe/Paris" {
		t.Errorf("place = %+v", p)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JOIN_MODE", "name")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("TIDES_GID", "7")

	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Port != "9000" || c.Join() != beaches.ByName || c.CacheTTL != 30*time.Second {
		t.Errorf("overrides not applied: %+v", c)
	}
	if c.GIDs()[sheets.Tides] != 7 {
		t.Errorf("tides gid = %d", c.GIDs()[sheets.Tides])
	}
}

func TestLoadErrors(t *testing.T) {
	for name, env := range map[string][2]string{
		"bad timezone":      {"TIMEZONE", "Mars/Olympus"},
		"bad join":          {"JOIN_MODE", "fuzzy"},
		"half of the api":   {"SPREADSHEET_ID", "abc"},
		"unparseable ttl":   {"CACHE_TTL", "soon"},
		"unparseable float": {"LATITUDE", "north"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", env[0], env[1])
			}
		})
	}
}

func TestCookieKeys(t *testing.T) {
	c := &Config{SessionKey: "hash", EncryptionKey: "secret"}
	hash, block := c.CookieKeys()
	if string(hash) != "hash" {
		t.Errorf("hash key = %q", hash)
	}
	if len(block) != 32 {
		t.Errorf("block key is %d bytes, want 32 for AES-256", len(block))
	}
	_, other := (&Config{SessionKey: "hash", EncryptionKey: "other"}).CookieKeys()
	if string(block) == string(other) {
		t.Errorf("different passwords derived the same key")
	}
}
