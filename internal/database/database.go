package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"course-catalog/internal/browse"
	"course-catalog/internal/model"
)

// Client is the remote catalog store. It is read-only: the service never
// writes course rows.
type Client interface {
	Close()
	SearchCourses(ctx context.Context, sel browse.Selection) ([]model.Course, int, error)
	MajorCategories(ctx context.Context) ([]string, error)
	CategoryPairs(ctx context.Context) ([]model.CategoryPair, error)
	Institutions(ctx context.Context) ([]string, error)
}

type client struct {
	db *sql.DB
}

// ConnString composes the store endpoint URL and the access credential
// ("user" or "user:password") into a connection string.
func ConnString(addr, key string) (string, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("parsing store endpoint: %w", err)
	}
	user, pass, hasPass := strings.Cut(key, ":")
	if hasPass {
		u.User = url.UserPassword(user, pass)
	} else {
		u.User = url.User(user)
	}
	return u.String(), nil
}

// NewClient connects to the store at the given endpoint with the given
// credential.
func NewClient(addr, key string) (Client, error) {
	connStr, err := ConnString(addr, key)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("connecting to store: %w", err)
	}

	return &client{db: db}, nil
}

func (c *client) Close() {
	if err := c.db.Close(); err != nil {
		log.Errorf("closing store connection: %v", err)
	}
}

// costNumber extracts the digits of the textual cost column as a bigint so
// range predicates and sorting compare numerically even when the value
// carries a currency mark. Blank and digit-free values become NULL.
const costNumber = `NULLIF(regexp_replace(cost, '[^0-9]', '', 'g'), '')::bigint`

const courseColumns = `id, major_category, sub_category, course_name, institution, institution_url,
		start_date, end_date, duration_days, duration_hours, cost`

var sortColumns = map[browse.SortField]string{
	browse.SortCourseName:    "course_name",
	browse.SortStartDate:     "start_date",
	browse.SortEndDate:       "end_date",
	browse.SortDurationHours: "duration_hours",
	browse.SortCost:          costNumber,
}

// searchQuery translates a selection into a WHERE clause and its arguments.
func searchQuery(sel browse.Selection) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if sel.MajorCategory != "" {
		conditions = append(conditions, "major_category = "+arg(sel.MajorCategory))
	}
	if sel.SubCategory != "" {
		conditions = append(conditions, "sub_category = "+arg(sel.SubCategory))
	}
	if sel.Institution != "" {
		conditions = append(conditions, "institution = "+arg(sel.Institution))
	}
	if sel.Query != "" {
		conditions = append(conditions, `course_name ILIKE `+arg(likePattern(sel.Query))+` ESCAPE '\'`)
	}
	if from, to, ok := sel.MonthRange(); ok {
		conditions = append(conditions, "start_date >= "+arg(from))
		conditions = append(conditions, "start_date <= "+arg(to))
	}
	if min, max, hasMax, ok := sel.CostRange(); ok {
		conditions = append(conditions, costNumber+" >= "+arg(min))
		if hasMax {
			conditions = append(conditions, costNumber+" < "+arg(max))
		}
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// orderClause maps the selected sort onto a column with NULLS LAST in both
// directions, plus id as a tiebreaker so pages never overlap.
func orderClause(sel browse.Selection) string {
	column := sortColumns[sel.Sort]
	if column == "" {
		column = "start_date"
	}
	direction := "ASC"
	if sel.Direction == browse.Descending {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s NULLS LAST, id", column, direction)
}

func likePattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(query) + "%"
}

// SearchCourses runs one fetch cycle against the store: an exact count of
// all matches, then the selected page.
func (c *client) SearchCourses(ctx context.Context, sel browse.Selection) ([]model.Course, int, error) {
	where, args := searchQuery(sel)

	var total int
	err := c.db.QueryRowContext(ctx, "SELECT count(*) FROM courses"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting courses: %w", err)
	}

	query := "SELECT " + courseColumns + " FROM courses" + where + orderClause(sel)
	limitArgs := append(args, browse.PageSize, sel.Offset())
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	rows, err := c.db.QueryContext(ctx, query, limitArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying courses: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var course model.Course
		if err := rows.Scan(
			&course.ID, &course.MajorCategory, &course.SubCategory, &course.CourseName,
			&course.Institution, &course.InstitutionURL, &course.StartDate, &course.EndDate,
			&course.DurationDays, &course.DurationHours, &course.Cost,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading course rows: %w", err)
	}

	return courses, total, nil
}

func (c *client) MajorCategories(ctx context.Context) ([]string, error) {
	return c.distinctColumn(ctx, "major_category")
}

func (c *client) Institutions(ctx context.Context) ([]string, error) {
	return c.distinctColumn(ctx, "institution")
}

func (c *client) distinctColumn(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT DISTINCT %s FROM courses WHERE %s IS NOT NULL AND %s <> ''",
		column, column, column,
	)
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning distinct %s: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (c *client) CategoryPairs(ctx context.Context) ([]model.CategoryPair, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT DISTINCT major_category, sub_category FROM courses
		WHERE major_category IS NOT NULL AND major_category <> ''
		AND sub_category IS NOT NULL AND sub_category <> ''`)
	if err != nil {
		return nil, fmt.Errorf("querying category pairs: %w", err)
	}
	defer rows.Close()

	var pairs []model.CategoryPair
	for rows.Next() {
		var p model.CategoryPair
		if err := rows.Scan(&p.MajorCategory, &p.SubCategory); err != nil {
			return nil, fmt.Errorf("scanning category pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}
