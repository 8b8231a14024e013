package sheets

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/spencer-p/beachdash/pkg/beaches"
	"github.com/spencer-p/beachdash/pkg/cache"
	"github.com/spencer-p/beachdash/pkg/retry"
)

const datasetKey = "dataset"

// Loader builds datasets from a source and keeps the last one until its TTL
// runs out. Concurrent callers share a single load.
type Loader struct {
	src    Source
	policy retry.Config
	mode   beaches.JoinMode
	loc    *time.Location

	cache *cache.Timed[*beaches.Dataset]
	group singleflight.Group
}

func NewLoader(src Source, policy retry.Config, mode beaches.JoinMode, loc *time.Location, ttl time.Duration) *Loader {
	return &Loader{
		src:    src,
		policy: policy,
		mode:   mode,
		loc:    loc,
		cache:  cache.NewTimed[*beaches.Dataset](ttl),
	}
}

// Dataset returns the cached dataset or loads a fresh one. Errors are
// *beaches.DataError.
//
// The shared load outlives the caller that started it, so cancelling one
// request does not fail the others waiting on the same load. Each attempt is
// still bounded by the retry policy's timeout.
func (l *Loader) Dataset(ctx context.Context) (*beaches.Dataset, error) {
	if d, ok := l.cache.Get(datasetKey); ok {
		return d, nil
	}
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := l.group.Do(datasetKey, func() (interface{}, error) {
		return l.cache.GetOrLoad(datasetKey, func() (*beaches.Dataset, error) {
			start := time.Now()
			tables, err := Load(loadCtx, l.src, l.policy)
			if err != nil {
				return nil, err
			}
			d, err := beaches.Build(tables, l.mode, l.loc)
			if err != nil {
				return nil, err
			}
			log.Info().
				Int("beaches", len(d.Beaches)).
				Int("tide_days", len(d.Tides)).
				Dur("took", time.Since(start)).
				Msg("Loaded dataset")
			return d, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return v.(*beaches.Dataset), nil
}

// Invalidate drops the cached dataset so the next call reloads.
func (l *Loader) Invalidate() {
	l.cache.Delete(datasetKey)
}
