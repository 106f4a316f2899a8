// Package browse holds the filter selection state of a catalog browsing
// session and the fetch orchestration around it. Every state transition is a
// pure function from the old selection to a new one; the Session type layers
// the fetch side effect on top.
package browse

import (
	"strconv"
	"strings"
	"time"
)

// PageSize is the fixed number of courses per result page.
const PageSize = 20

// SortField names a sortable course column.
type SortField string

const (
	SortCourseName    SortField = "course_name"
	SortStartDate     SortField = "start_date"
	SortEndDate       SortField = "end_date"
	SortDurationHours SortField = "duration_hours"
	SortCost          SortField = "cost"
)

// SortDirection is "asc" or "desc".
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

var sortFields = map[SortField]bool{
	SortCourseName:    true,
	SortStartDate:     true,
	SortEndDate:       true,
	SortDurationHours: true,
	SortCost:          true,
}

// Selection is the full filter/sort/page state of one browsing session.
// Month is a "2006-01" key from the month catalog; CostBand is a "min-max"
// key from the cost-band catalog, with an empty max for the open-ended top
// band. Zero values mean "not filtered".
type Selection struct {
	Query         string        `json:"query" schema:"query"`
	MajorCategory string        `json:"major" schema:"major"`
	SubCategory   string        `json:"sub" schema:"sub"`
	Institution   string        `json:"institution" schema:"institution"`
	Month         string        `json:"month" schema:"month"`
	CostBand      string        `json:"cost" schema:"cost"`
	Sort          SortField     `json:"sort" schema:"sort"`
	Direction     SortDirection `json:"dir" schema:"dir"`
	Page          int           `json:"page" schema:"page"`
}

// DefaultSelection is the state of a fresh session: no filters, soonest
// start date first, page 1.
func DefaultSelection() Selection {
	return Selection{
		Sort:      SortStartDate,
		Direction: Ascending,
		Page:      1,
	}
}

// Sanitize clamps decoded input onto valid state without rejecting it: an
// unknown sort field or direction falls back to the default and the page
// floor is 1.
func (s Selection) Sanitize() Selection {
	if !sortFields[s.Sort] {
		s.Sort = SortStartDate
	}
	if s.Direction != Descending {
		s.Direction = Ascending
	}
	if s.Page < 1 {
		s.Page = 1
	}
	return s
}

// Changing any filter or sort field resets the page to 1; only WithPage
// leaves the rest of the selection alone.

func (s Selection) WithQuery(q string) Selection {
	s.Query = strings.TrimSpace(q)
	s.Page = 1
	return s
}

// WithMajorCategory also clears the sub-category, since sub-category values
// are scoped to one major.
func (s Selection) WithMajorCategory(major string) Selection {
	s.MajorCategory = major
	s.SubCategory = ""
	s.Page = 1
	return s
}

func (s Selection) WithSubCategory(sub string) Selection {
	s.SubCategory = sub
	s.Page = 1
	return s
}

func (s Selection) WithInstitution(inst string) Selection {
	s.Institution = inst
	s.Page = 1
	return s
}

func (s Selection) WithMonth(month string) Selection {
	s.Month = month
	s.Page = 1
	return s
}

func (s Selection) WithCostBand(band string) Selection {
	s.CostBand = band
	s.Page = 1
	return s
}

func (s Selection) WithSort(field SortField, dir SortDirection) Selection {
	s.Sort = field
	s.Direction = dir
	s.Page = 1
	return s.Sanitize()
}

func (s Selection) WithPage(page int) Selection {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

// WithoutFilters clears all six filter fields in one transition, leaving
// sort and page size untouched.
func (s Selection) WithoutFilters() Selection {
	s.Query = ""
	s.MajorCategory = ""
	s.SubCategory = ""
	s.Institution = ""
	s.Month = ""
	s.CostBand = ""
	s.Page = 1
	return s
}

// ActiveFilterCount is the number of non-empty fields among the six filter
// fields. Sort and page do not count.
func (s Selection) ActiveFilterCount() int {
	n := 0
	for _, v := range []string{s.Query, s.MajorCategory, s.SubCategory, s.Institution, s.Month, s.CostBand} {
		if v != "" {
			n++
		}
	}
	return n
}

// Offset is the row offset of the current page.
func (s Selection) Offset() int {
	return (s.Page - 1) * PageSize
}

// MonthRange resolves the selected month key into an inclusive start-date
// range covering the whole calendar month. ok is false when no month is
// selected or the key is malformed.
func (s Selection) MonthRange() (from, to time.Time, ok bool) {
	if s.Month == "" {
		return time.Time{}, time.Time{}, false
	}
	first, err := time.Parse("2006-01", s.Month)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	last := first.AddDate(0, 1, -1)
	return first, last, true
}

// CostRange resolves the selected cost-band key into a numeric range:
// min inclusive, max exclusive. hasMax is false for the open-ended top band.
// ok is false when no band is selected or the key is malformed.
func (s Selection) CostRange() (min, max int64, hasMax, ok bool) {
	if s.CostBand == "" {
		return 0, 0, false, false
	}
	lo, hi, found := strings.Cut(s.CostBand, "-")
	if !found {
		return 0, 0, false, false
	}
	min, err := strconv.ParseInt(lo, 10, 64)
	if err != nil || min < 0 {
		return 0, 0, false, false
	}
	if hi == "" {
		return min, 0, false, true
	}
	max, err = strconv.ParseInt(hi, 10, 64)
	if err != nil || max <= min {
		return 0, 0, false, false
	}
	return min, max, true, true
}

// TotalPages is the page count for a result set, never less than one so the
// pager always has a current page to stand on.
func TotalPages(totalCount int) int {
	if totalCount <= 0 {
		return 1
	}
	return (totalCount + PageSize - 1) / PageSize
}
