// Package config reads the process configuration from the environment.
package config

import (
	"context"
	"crypto/sha1"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/pbkdf2"

	"github.com/spencer-p/beachdash/pkg/beaches"
	"github.com/spencer-p/beachdash/pkg/sheets"
	"github.com/spencer-p/beachdash/pkg/sunset"
)

const insecureKey = "deadbeef"

type Config struct {
	Port   string `default:"8080"`
	Prefix string `default:"/"`
	Env    string `default:"development"`

	SheetURL           string `envconfig:"SHEET_URL" default:"https://docs.google.com/spreadsheets/d/e/2PACX-1vQJyHbc7PkwrZCNp4pk4yRIwskOUu27oWjYt_IBxNYtYG7aAWB2S1leol5nHITv29wUCYEiAczyTY9s/pub?output=csv"`
	BeachesGID         int    `envconfig:"BEACHES_GID" default:"0"`
	WeatherGID         int    `envconfig:"WEATHER_GID" default:"146047806"`
	TidesGID           int    `envconfig:"TIDES_GID" default:"138428367"`
	RecommendationsGID int    `envconfig:"RECOMMENDATIONS_GID" default:"2049933385"`

	// Set both to read through the Sheets API instead of the published CSV.
	SpreadsheetID     string `envconfig:"SPREADSHEET_ID"`
	SheetsCredentials string `envconfig:"SHEETS_CREDENTIALS"`

	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	JoinMode string        `envconfig:"JOIN_MODE" default:"position"`

	Timezone  string  `default:"Europe/Paris"`
	Latitude  float64 `default:"47.6389"`
	Longitude float64 `default:"-3.4523"`

	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:"beachdash.db"`

	SessionKey    string `envconfig:"SESSION_KEY"`
	EncryptionKey string `envconfig:"ENCRYPTION_KEY"`
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "":
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	case "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		level, perr := zerolog.ParseLevel(levelStr)
		if perr != nil {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
			break
		}
		zerolog.SetGlobalLevel(level)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found; proceeding with existing environment variables.")
	}
}

// Load reads the configuration from the environment and checks it.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if _, err := c.Location(); err != nil {
		return nil, err
	}
	if _, err := beaches.ParseJoinMode(c.JoinMode); err != nil {
		return nil, err
	}
	if (c.SpreadsheetID == "") != (c.SheetsCredentials == "") {
		return nil, fmt.Errorf("SPREADSHEET_ID and SHEETS_CREDENTIALS must be set together")
	}
	return &c, nil
}

// Location is the time zone every date and hour is read in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("bad TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Place is the map center, used for daylight.
func (c *Config) Place() sunset.Place {
	loc, err := c.Location()
	if err != nil {
		loc = time.UTC
	}
	return sunset.Place{Lat: c.Latitude, Long: c.Longitude, Location: loc}
}

func (c *Config) Join() beaches.JoinMode {
	m, err := beaches.ParseJoinMode(c.JoinMode)
	if err != nil {
		return beaches.ByPosition
	}
	return m
}

// GIDs maps each sheet to its tab in the published spreadsheet.
func (c *Config) GIDs() map[sheets.Sheet]int {
	return map[sheets.Sheet]int{
		sheets.Beaches:         c.BeachesGID,
		sheets.Weather:         c.WeatherGID,
		sheets.Tides:           c.TidesGID,
		sheets.Recommendations: c.RecommendationsGID,
	}
}

// Source picks the Sheets API when credentials are configured and the
// published CSV export otherwise.
func (c *Config) Source(ctx context.Context) (sheets.Source, error) {
	if c.SpreadsheetID != "" {
		return sheets.NewAPI(ctx, c.SheetsCredentials, c.SpreadsheetID, sheets.DefaultRanges)
	}
	return sheets.NewPublished(c.SheetURL, c.GIDs()), nil
}

// CookieKeys returns the hash and encryption keys for session cookies. Unset
// keys fall back to an insecure default that is only fit for development.
func (c *Config) CookieKeys() (hashKey, blockKey []byte) {
	hash, password := c.SessionKey, c.EncryptionKey
	if hash == "" {
		hash = insecureKey
	}
	if password == "" {
		password = insecureKey
	}
	if (c.SessionKey == "" || c.EncryptionKey == "") && c.Env == "production" {
		log.Warn().Msg("SESSION_KEY or ENCRYPTION_KEY unset in production")
	}
	return []byte(hash), pbkdf2.Key([]byte(password), []byte{}, 4096, 32, sha1.New)
}
