// Package data persists what visitors chose across visits.
package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned for an unknown visitor.
var ErrNotFound = errors.New("visitor not found")

// Visitor is a browser that has been to the map before.
type Visitor struct {
	gorm.Model
	// Nil when the visitor follows the live clock.
	PinnedAt *time.Time
	Lat, Lon *float64
	Tracking bool
	LastSeen time.Time
}

// Store loads and saves visitors.
type Store interface {
	Visitor(ctx context.Context, id uint) (*Visitor, error)
	Save(ctx context.Context, v *Visitor) error
}

// Open connects to driver ("postgres" or "sqlite") and migrates the schema.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&Visitor{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return db, nil
}

// GormStore is a Store over a gorm database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Visitor(ctx context.Context, id uint) (*Visitor, error) {
	var v Visitor
	if r := s.db.WithContext(ctx).First(&v, id); r.Error != nil {
		if errors.Is(r.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, r.Error
	}
	return &v, nil
}

// Save inserts v, assigning its ID, or updates it.
func (s *GormStore) Save(ctx context.Context, v *Visitor) error {
	return s.db.WithContext(ctx).Save(v).Error
}
