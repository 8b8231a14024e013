package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spencer-p/beachdash/pkg/table"
)

// maxSheetBytes bounds how much of a sheet export is read.
const maxSheetBytes = 8 << 20

// Published reads the CSV export of a spreadsheet published to the web. Each
// sheet is selected by its gid on the same base URL.
type Published struct {
	BaseURL string
	GIDs    map[Sheet]int
	Client  *http.Client
}

func NewPublished(baseURL string, gids map[Sheet]int) *Published {
	return &Published{
		BaseURL: baseURL,
		GIDs:    gids,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// URL is the CSV export address of a sheet.
func (p *Published) URL(sheet Sheet) (string, error) {
	gid, ok := p.GIDs[sheet]
	if !ok {
		return "", fmt.Errorf("no gid configured for %s sheet", sheet)
	}
	addr, err := url.Parse(p.BaseURL)
	if err != nil {
		return "", fmt.Errorf("sheet base URL %q: %w", p.BaseURL, err)
	}
	q := addr.Query()
	if q.Get("output") == "" {
		q.Set("output", "csv")
	}
	q.Set("gid", strconv.Itoa(gid))
	addr.RawQuery = q.Encode()
	return addr.String(), nil
}

func (p *Published) Rows(ctx context.Context, sheet Sheet) ([]table.Row, error) {
	addr, err := p.URL(sheet)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s sheet: %w", sheet, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s sheet: received status code %d", sheet, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSheetBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", sheet, err)
	}
	return table.Parse(string(body))
}
