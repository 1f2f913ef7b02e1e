package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/groblegark/commtrack/internal/model"
	"github.com/groblegark/commtrack/internal/store"
)

// companyColumns is the column list used for SELECT statements on the companies table.
const companyColumns = `id, name, location, linkedin, emails, phones, comments,
	periodicity_days, highlight_disabled, created_at, updated_at`

// eventColumns is the column list for SELECT statements on the events table,
// joined with companies for the denormalized company name.
const eventColumns = `e.id, e.company_id, c.name, e.method, e.date, e.notes,
	e.status, e.created_by, e.created_at, e.updated_at`

const eventFrom = ` FROM events e JOIN companies c ON e.company_id = c.id`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// --- Companies ---

func queryCreateCompany(ctx context.Context, db executor, c *model.Company) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO companies (
			id, name, location, linkedin, emails, phones, comments,
			periodicity_days, highlight_disabled, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID,
		c.Name,
		c.Location,
		c.LinkedIn,
		pq.Array(c.Emails),
		pq.Array(c.Phones),
		c.Comments,
		c.PeriodicityDays,
		c.HighlightDisabled,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func queryGetCompany(ctx context.Context, db executor, id string) (*model.Company, error) {
	row := db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	return scanCompany(row)
}

func queryListCompanies(ctx context.Context, db executor) ([]*model.Company, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []*model.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan companies: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan companies: %w", err)
	}
	return companies, nil
}

func queryUpdateCompany(ctx context.Context, db executor, c *model.Company) error {
	return db.QueryRowContext(ctx, `
		UPDATE companies SET
			name = $2,
			location = $3,
			linkedin = $4,
			emails = $5,
			phones = $6,
			comments = $7,
			periodicity_days = $8,
			highlight_disabled = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		c.ID,
		c.Name,
		c.Location,
		c.LinkedIn,
		pq.Array(c.Emails),
		pq.Array(c.Phones),
		c.Comments,
		c.PeriodicityDays,
		c.HighlightDisabled,
	).Scan(&c.UpdatedAt)
}

func querySetCompanyHighlight(ctx context.Context, db executor, id string, disabled bool) (*model.Company, error) {
	row := db.QueryRowContext(ctx, `
		UPDATE companies
		SET highlight_disabled = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+companyColumns,
		id, disabled,
	)
	return scanCompany(row)
}

func queryDeleteCompany(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// --- Method catalog ---

func queryCreateMethod(ctx context.Context, db executor, m *model.Method) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO methods (id, name, description, sequence, mandatory, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.Name, m.Description, m.Sequence, m.Mandatory, m.CreatedAt,
	)
	return err
}

func queryListMethods(ctx context.Context, db executor) ([]*model.Method, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, description, sequence, mandatory, created_at
		FROM methods ORDER BY sequence ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list methods: %w", err)
	}
	defer rows.Close()

	var methods []*model.Method
	for rows.Next() {
		m, err := scanMethod(rows)
		if err != nil {
			return nil, fmt.Errorf("scan methods: %w", err)
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan methods: %w", err)
	}
	return methods, nil
}

func queryDeleteMethod(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM methods WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// --- Events ---

// queryCreateEvent inserts an event, treating an existing ID as a no-op
// (idempotent create). The method name must exist in the catalog.
func queryCreateEvent(ctx context.Context, db executor, e *model.CommEvent) (bool, error) {
	var known bool
	if err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM methods WHERE name = $1)`, e.Method,
	).Scan(&known); err != nil {
		return false, fmt.Errorf("check method: %w", err)
	}
	if !known {
		return false, fmt.Errorf("%w: %q", store.ErrUnknownMethod, e.Method)
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO events (id, company_id, method, date, notes, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		e.ID,
		e.CompanyID,
		e.Method,
		e.Date,
		e.Notes,
		string(e.Status),
		e.CreatedBy,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func queryGetEvent(ctx context.Context, db executor, id string) (*model.CommEvent, error) {
	row := db.QueryRowContext(ctx, `SELECT `+eventColumns+eventFrom+` WHERE e.id = $1`, id)
	return scanEvent(row)
}

func queryListEvents(ctx context.Context, db executor, filter model.EventFilter) ([]*model.CommEvent, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.CompanyID != "" {
		whereClauses = append(whereClauses, "e.company_id = "+nextArg())
		args = append(args, filter.CompanyID)
	}

	if len(filter.Method) > 0 {
		placeholders := make([]string, len(filter.Method))
		for i, m := range filter.Method {
			placeholders[i] = nextArg()
			args = append(args, m)
		}
		whereClauses = append(whereClauses, "e.method IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			placeholders[i] = nextArg()
			args = append(args, string(s))
		}
		whereClauses = append(whereClauses, "e.status IN ("+strings.Join(placeholders, ", ")+")")
	}

	if filter.From != nil {
		whereClauses = append(whereClauses, "e.date >= "+nextArg())
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		whereClauses = append(whereClauses, "e.date < "+nextArg())
		args = append(args, *filter.To)
	}

	if filter.Search != "" {
		p := nextArg()
		whereClauses = append(whereClauses,
			fmt.Sprintf("(e.notes ILIKE '%%' || %s || '%%' OR c.name ILIKE '%%' || %s || '%%')", p, p))
		args = append(args, filter.Search)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Single query with COUNT(*) OVER() to get total and rows atomically.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + eventColumns + eventFrom + whereSQL +
		" ORDER BY " + parseSortClause(filter.Sort)

	if filter.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*model.CommEvent
	var total int
	for rows.Next() {
		e, t, err := scanEventWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan events: %w", err)
		}
		total = t
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan events: %w", err)
	}

	return events, total, nil
}

func queryUpdateEvent(ctx context.Context, db executor, e *model.CommEvent) error {
	return db.QueryRowContext(ctx, `
		UPDATE events SET
			company_id = $2,
			method = $3,
			date = $4,
			notes = $5,
			status = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		e.ID,
		e.CompanyID,
		e.Method,
		e.Date,
		e.Notes,
		string(e.Status),
	).Scan(&e.UpdatedAt)
}

func queryDeleteEvent(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// --- Dashboard ---

// queryLastEvents returns up to limit events dated strictly before now for
// the company, most recent first.
func queryLastEvents(ctx context.Context, db executor, companyID string, limit int, now time.Time) ([]*model.CommEvent, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+eventColumns+eventFrom+`
		WHERE e.company_id = $1 AND e.date < $2
		ORDER BY e.date DESC
		LIMIT $3`,
		companyID, now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("last events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// queryNextEvent returns the earliest event dated at or after now for the
// company, or nil when none is scheduled.
func queryNextEvent(ctx context.Context, db executor, companyID string, now time.Time) (*model.CommEvent, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+eventColumns+eventFrom+`
		WHERE e.company_id = $1 AND e.date >= $2
		ORDER BY e.date ASC
		LIMIT 1`,
		companyID, now,
	)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

// --- Reporting ---

func queryCountByMethod(ctx context.Context, db executor, from, to *time.Time, confirmedOnly bool) (map[string]int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)
	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if confirmedOnly {
		whereClauses = append(whereClauses, "status = 'confirmed'")
	}
	if from != nil {
		whereClauses = append(whereClauses, "date >= "+nextArg())
		args = append(args, *from)
	}
	if to != nil {
		whereClauses = append(whereClauses, "date < "+nextArg())
		args = append(args, *to)
	}

	q := "SELECT method, COUNT(*) FROM events"
	if len(whereClauses) > 0 {
		q += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	q += " GROUP BY method"

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("count by method: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var method string
		var n int
		if err := rows.Scan(&method, &n); err != nil {
			return nil, fmt.Errorf("scan counts: %w", err)
		}
		counts[method] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan counts: %w", err)
	}
	return counts, nil
}

// queryCountOverdueCompanies counts companies whose communication cadence has
// lapsed: periodicity is set, highlighting is enabled, and the most recent
// event (or the company's creation date when none exists) plus the
// periodicity falls strictly before now.
func queryCountOverdueCompanies(ctx context.Context, db executor, now time.Time) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM companies c
		WHERE c.periodicity_days > 0
		  AND NOT c.highlight_disabled
		  AND COALESCE(
		        (SELECT MAX(e.date) FROM events e WHERE e.company_id = c.id),
		        c.created_at::date
		      ) + c.periodicity_days < $1::date`,
		now,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count overdue: %w", err)
	}
	return n, nil
}

func queryRecordOverdueSnapshot(ctx context.Context, db executor, s *model.OverdueSnapshot) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO overdue_snapshots (date, overdue_count)
		VALUES ($1, $2)
		ON CONFLICT (date) DO UPDATE SET overdue_count = EXCLUDED.overdue_count`,
		s.Date, s.OverdueCount,
	)
	return err
}

func queryListOverdueSnapshots(ctx context.Context, db executor, from, to *time.Time) ([]*model.OverdueSnapshot, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)
	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if from != nil {
		whereClauses = append(whereClauses, "date >= "+nextArg())
		args = append(args, *from)
	}
	if to != nil {
		whereClauses = append(whereClauses, "date < "+nextArg())
		args = append(args, *to)
	}

	q := "SELECT date, overdue_count FROM overdue_snapshots"
	if len(whereClauses) > 0 {
		q += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	q += " ORDER BY date ASC"

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*model.OverdueSnapshot
	for rows.Next() {
		var s model.OverdueSnapshot
		if err := rows.Scan(&s.Date, &s.OverdueCount); err != nil {
			return nil, fmt.Errorf("scan snapshots: %w", err)
		}
		snaps = append(snaps, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan snapshots: %w", err)
	}
	return snaps, nil
}

func parseSortClause(sort string) string {
	if sort == "" {
		return "e.date DESC"
	}
	desc := strings.HasPrefix(sort, "-")
	col := strings.TrimPrefix(sort, "-")
	allowed := map[string]bool{
		"date": true, "created_at": true, "updated_at": true, "method": true,
	}
	if !allowed[col] {
		return "e.date DESC"
	}
	if desc {
		return "e." + col + " DESC"
	}
	return "e." + col + " ASC"
}
