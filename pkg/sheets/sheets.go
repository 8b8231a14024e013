package sheets

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/spencer-p/beachdash/pkg/beaches"
	"github.com/spencer-p/beachdash/pkg/metrics"
	"github.com/spencer-p/beachdash/pkg/retry"
	"github.com/spencer-p/beachdash/pkg/table"
)

// Sheet names one tab of the spreadsheet.
type Sheet string

const (
	Beaches         Sheet = "beaches"
	Weather         Sheet = "weather"
	Tides           Sheet = "tides"
	Recommendations Sheet = "recommendations"
)

// All lists every sheet Load reads.
var All = []Sheet{Beaches, Weather, Tides, Recommendations}

// Source reads the rows of one sheet.
type Source interface {
	Rows(ctx context.Context, sheet Sheet) ([]table.Row, error)
}

// Load reads every sheet concurrently and returns only once all have
// arrived. Any failure fails the whole load with a *beaches.DataError.
func Load(ctx context.Context, src Source, policy retry.Config) (beaches.Tables, error) {
	var t beaches.Tables
	dest := map[Sheet]*[]table.Row{
		Beaches:         &t.Beaches,
		Weather:         &t.Weather,
		Tides:           &t.Tides,
		Recommendations: &t.Recommendations,
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, sheet := range All {
		sheet := sheet
		g.Go(func() error {
			start := time.Now()
			rows, err := retry.WithRetry(ctx, policy, func(ctx context.Context) ([]table.Row, error) {
				return src.Rows(ctx, sheet)
			})
			metrics.ObserveSheetFetch(string(sheet), err == nil, time.Since(start).Seconds())
			if err != nil {
				return &beaches.DataError{Sheet: string(sheet), Err: err}
			}
			*dest[sheet] = rows
			log.Debug().Str("sheet", string(sheet)).Int("rows", len(rows)).Msg("Loaded sheet")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return beaches.Tables{}, err
	}
	return t, nil
}
