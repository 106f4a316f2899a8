package main

import (
	"course-catalog/internal/browse"
	"course-catalog/internal/catalog"
	"course-catalog/internal/format"
	"course-catalog/internal/model"
)

// CourseView is one course row as rendered to the client: blanks instead of
// SQL nulls, ISO dates plus their dotted display form, grouped cost, and a
// normalized institution link (empty when no link should render).
type CourseView struct {
	ID               int    `json:"id"`
	MajorCategory    string `json:"major_category"`
	SubCategory      string `json:"sub_category"`
	CourseName       string `json:"course_name"`
	Institution      string `json:"institution"`
	InstitutionURL   string `json:"institution_url,omitempty"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	StartDateDisplay string `json:"start_date_display"`
	EndDateDisplay   string `json:"end_date_display"`
	DurationDays     *int64 `json:"duration_days"`
	DurationHours    *int64 `json:"duration_hours"`
	Cost             string `json:"cost"`
	CostDisplay      string `json:"cost_display"`
}

func newCourseView(c model.Course) CourseView {
	view := CourseView{
		ID:             c.ID,
		MajorCategory:  c.MajorCategory.String,
		SubCategory:    c.SubCategory.String,
		CourseName:     c.CourseName.String,
		Institution:    c.Institution.String,
		InstitutionURL: format.URL(c.InstitutionURL.String),
		Cost:           c.Cost.String,
		CostDisplay:    format.Cost(c.Cost.String),
	}
	if c.StartDate.Valid {
		view.StartDate = c.StartDate.Time.Format("2006-01-02")
	}
	if c.EndDate.Valid {
		view.EndDate = c.EndDate.Time.Format("2006-01-02")
	}
	view.StartDateDisplay = format.Date(view.StartDate)
	view.EndDateDisplay = format.Date(view.EndDate)
	if c.DurationDays.Valid {
		days := c.DurationDays.Int64
		view.DurationDays = &days
	}
	if c.DurationHours.Valid {
		hours := c.DurationHours.Int64
		view.DurationHours = &hours
	}
	return view
}

type SearchResponse struct {
	Courses       []CourseView `json:"courses"`
	TotalCount    int          `json:"total_count"`
	Page          int          `json:"page"`
	TotalPages    int          `json:"total_pages"`
	ActiveFilters int          `json:"active_filters"`
}

func newSearchResponse(sel browse.Selection, courses []model.Course, total int) SearchResponse {
	views := make([]CourseView, 0, len(courses))
	for _, c := range courses {
		views = append(views, newCourseView(c))
	}
	return SearchResponse{
		Courses:       views,
		TotalCount:    total,
		Page:          sel.Page,
		TotalPages:    browse.TotalPages(total),
		ActiveFilters: sel.ActiveFilterCount(),
	}
}

type FilterOptionsResponse struct {
	MajorCategories []string           `json:"major_categories"`
	SubCategories   []string           `json:"sub_categories"`
	Institutions    []string           `json:"institutions"`
	CostBands       []catalog.CostBand `json:"cost_bands"`
	Months          []catalog.Month    `json:"months"`
}

type ThemeResponse struct {
	Dark bool `json:"dark"`
}

type ThemeRequest struct {
	Dark bool `json:"dark"`
}

type StatusResponse struct {
	Configured      bool     `json:"configured"`
	MissingSettings []string `json:"missing_settings,omitempty"`
	CatalogLoaded   bool     `json:"catalog_loaded"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
