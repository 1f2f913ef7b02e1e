package postgres

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/groblegark/commtrack/internal/model"
)

// scannable is satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanCompany(row scannable) (*model.Company, error) {
	var c model.Company
	var location, linkedin, comments sql.NullString
	err := row.Scan(
		&c.ID,
		&c.Name,
		&location,
		&linkedin,
		pq.Array(&c.Emails),
		pq.Array(&c.Phones),
		&comments,
		&c.PeriodicityDays,
		&c.HighlightDisabled,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Location = location.String
	c.LinkedIn = linkedin.String
	c.Comments = comments.String
	return &c, nil
}

func scanMethod(row scannable) (*model.Method, error) {
	var m model.Method
	var description sql.NullString
	err := row.Scan(
		&m.ID,
		&m.Name,
		&description,
		&m.Sequence,
		&m.Mandatory,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Description = description.String
	return &m, nil
}

func scanEvent(row scannable) (*model.CommEvent, error) {
	var e model.CommEvent
	var notes, createdBy sql.NullString
	var status string
	err := row.Scan(
		&e.ID,
		&e.CompanyID,
		&e.CompanyName,
		&e.Method,
		&e.Date,
		&notes,
		&status,
		&createdBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Notes = notes.String
	e.CreatedBy = createdBy.String
	e.Status = model.EventStatus(status)
	return &e, nil
}

// scanEventWithTotal scans a row prefixed with a COUNT(*) OVER() total.
func scanEventWithTotal(row scannable) (*model.CommEvent, int, error) {
	var e model.CommEvent
	var total int
	var notes, createdBy sql.NullString
	var status string
	err := row.Scan(
		&total,
		&e.ID,
		&e.CompanyID,
		&e.CompanyName,
		&e.Method,
		&e.Date,
		&notes,
		&status,
		&createdBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, 0, err
	}
	e.Notes = notes.String
	e.CreatedBy = createdBy.String
	e.Status = model.EventStatus(status)
	return &e, total, nil
}

func scanEvents(rows *sql.Rows) ([]*model.CommEvent, error) {
	var events []*model.CommEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
