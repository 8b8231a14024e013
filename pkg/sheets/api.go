package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/spencer-p/beachdash/pkg/table"
)

// DefaultRanges reads columns A to Z of the French-named tabs of the
// source spreadsheet.
var DefaultRanges = map[Sheet]string{
	Beaches:         "PLAGES!A:Z",
	Weather:         "METEO!A:Z",
	Tides:           "MAREES!A:Z",
	Recommendations: "RECOMMANDATIONS!A:Z",
}

// API reads sheets through the Google Sheets API with service account
// credentials. It works for spreadsheets that are not published.
type API struct {
	service       *gsheets.Service
	SpreadsheetID string
	Ranges        map[Sheet]string
}

func NewAPI(ctx context.Context, credentialsFile, spreadsheetID string, ranges map[Sheet]string) (*API, error) {
	service, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	if ranges == nil {
		ranges = DefaultRanges
	}
	return &API{
		service:       service,
		SpreadsheetID: spreadsheetID,
		Ranges:        ranges,
	}, nil
}

func (a *API) Rows(ctx context.Context, sheet Sheet) ([]table.Row, error) {
	rng, ok := a.Ranges[sheet]
	if !ok {
		return nil, fmt.Errorf("no range configured for %s sheet", sheet)
	}
	resp, err := a.service.Spreadsheets.Values.Get(a.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", sheet, err)
	}
	return table.FromValues(resp.Values)
}
