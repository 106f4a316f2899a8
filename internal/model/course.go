package model

import "database/sql"

// Course is one row of the remote catalog. Every descriptive column is
// nullable in the feed, so the sql.Null types are kept all the way up to the
// HTTP layer, which decides how blanks render.
type Course struct {
	ID             int
	MajorCategory  sql.NullString
	SubCategory    sql.NullString
	CourseName     sql.NullString
	Institution    sql.NullString
	InstitutionURL sql.NullString
	StartDate      sql.NullTime
	EndDate        sql.NullTime
	DurationDays   sql.NullInt64
	DurationHours  sql.NullInt64
	Cost           sql.NullString
}

// CategoryPair is one distinct (major, sub) combination from the catalog.
// Sub-category values are scoped to exactly one major category.
type CategoryPair struct {
	MajorCategory string `json:"major_category"`
	SubCategory   string `json:"sub_category"`
}
