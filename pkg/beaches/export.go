package beaches

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"
)

// WriteCSV writes the beaches, header first.
func WriteCSV(w io.Writer, bs []Beach) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if len(bs) == 0 {
		if err := enc.EncodeHeader(Beach{}); err != nil {
			return fmt.Errorf("failed to encode beach header: %w", err)
		}
	}
	for _, b := range bs {
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("failed to encode beach %q: %w", b.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
