package catalog

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CostBand is one selectable cost range. Key is the wire value carried in
// the selection ("min-max", or "min-" for the open-ended top band); Min is
// inclusive and Max exclusive. Open marks the top band, which applies no
// upper predicate.
type CostBand struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Min   int64  `json:"min"`
	Max   int64  `json:"max,omitempty"`
	Open  bool   `json:"open,omitempty"`
}

// Month is one selectable start-month. Key is the wire value ("2006-01");
// From and To bound the start-date filter inclusively.
type Month struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
}

const costBandStep = 100_000

var grouped = message.NewPrinter(language.Korean)

// CostBands returns the fixed eleven-band cost catalog: ten closed 100k-wide
// bands from 0 to 1,000,000, then the open-ended top band.
func CostBands() []CostBand {
	bands := make([]CostBand, 0, 11)
	for lo := int64(0); lo < 1_000_000; lo += costBandStep {
		hi := lo + costBandStep
		bands = append(bands, CostBand{
			Key:   fmt.Sprintf("%d-%d", lo, hi),
			Label: grouped.Sprintf("%d ~ %d", lo, hi),
			Min:   lo,
			Max:   hi,
		})
	}
	bands = append(bands, CostBand{
		Key:   "1000000-",
		Label: grouped.Sprintf("%d+", 1_000_000),
		Min:   1_000_000,
		Open:  true,
	})
	return bands
}

// Months returns the twelve-entry month catalog for one target year.
func Months(year int) []Month {
	months := make([]Month, 0, 12)
	for m := time.January; m <= time.December; m++ {
		first := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
		months = append(months, Month{
			Key:   first.Format("2006-01"),
			Label: first.Format("2006.01"),
			From:  first,
			To:    first.AddDate(0, 1, -1),
		})
	}
	return months
}
