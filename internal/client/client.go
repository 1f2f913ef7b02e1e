// Package client provides a transport-agnostic interface for the commtrack
// service and an HTTP/JSON implementation that talks to its REST API.
package client

import (
	"context"
	"time"

	"github.com/groblegark/commtrack/internal/model"
	"github.com/groblegark/commtrack/internal/report"
)

// CommClient is the interface that all ct CLI commands use to communicate
// with the commtrack server. It is implemented by HTTPClient (default) and
// can be backed by any transport.
type CommClient interface {
	// Companies
	CreateCompany(ctx context.Context, req *CreateCompanyRequest) (*model.Company, error)
	GetCompany(ctx context.Context, id string) (*model.Company, error)
	ListCompanies(ctx context.Context) ([]*model.Company, error)
	UpdateCompany(ctx context.Context, id string, req *UpdateCompanyRequest) (*model.Company, error)
	SetCompanyHighlight(ctx context.Context, id string, disabled bool) (*model.Company, error)
	DeleteCompany(ctx context.Context, id string) error

	// Method catalog
	CreateMethod(ctx context.Context, req *CreateMethodRequest) (*model.Method, error)
	ListMethods(ctx context.Context) ([]*model.Method, error)
	DeleteMethod(ctx context.Context, id string) error

	// Communication events
	CreateEvent(ctx context.Context, req *CreateEventRequest) (*model.CommEvent, error)
	GetEvent(ctx context.Context, id string) (*model.CommEvent, error)
	ListEvents(ctx context.Context, req *ListEventsRequest) (*ListEventsResponse, error)
	UpdateEvent(ctx context.Context, id string, req *UpdateEventRequest) (*model.CommEvent, error)
	DeleteEvent(ctx context.Context, id string) error

	// StreamEvents opens the server's SSE feed and delivers notifications
	// until ctx is cancelled or the returned cancel function is called.
	StreamEvents(ctx context.Context, topics []string, lastEventID string) (<-chan Notification, func(), error)

	// Dashboard and reports
	Dashboard(ctx context.Context) ([]*model.DashboardRow, error)
	CompanyDashboard(ctx context.Context, id string) (*model.DashboardRow, error)
	ReportFrequency(ctx context.Context, from, to *time.Time) ([]report.MethodCount, error)
	ReportEffectiveness(ctx context.Context, from, to *time.Time) ([]report.Effectiveness, error)
	ReportTrends(ctx context.Context, from, to *time.Time) ([]report.TrendPoint, error)
	CalendarICS(ctx context.Context, companyID string, from, to *time.Time) (string, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// Notification is one event received from the server's SSE stream.
type Notification struct {
	ID    string // SSE sequence id, usable as Last-Event-ID on reconnect
	Topic string
	Data  []byte // JSON payload
}

// CreateCompanyRequest holds parameters for creating a company.
type CreateCompanyRequest struct {
	Name              string   `json:"name"`
	Location          string   `json:"location,omitempty"`
	LinkedIn          string   `json:"linkedin,omitempty"`
	Emails            []string `json:"emails,omitempty"`
	Phones            []string `json:"phones,omitempty"`
	Comments          string   `json:"comments,omitempty"`
	PeriodicityDays   int      `json:"periodicity_days,omitempty"`
	HighlightDisabled bool     `json:"highlight_disabled,omitempty"`
}

// UpdateCompanyRequest holds optional parameters for updating a company.
// Nil pointer fields mean "don't change".
type UpdateCompanyRequest struct {
	Name              *string   `json:"name,omitempty"`
	Location          *string   `json:"location,omitempty"`
	LinkedIn          *string   `json:"linkedin,omitempty"`
	Emails            *[]string `json:"emails,omitempty"`
	Phones            *[]string `json:"phones,omitempty"`
	Comments          *string   `json:"comments,omitempty"`
	PeriodicityDays   *int      `json:"periodicity_days,omitempty"`
	HighlightDisabled *bool     `json:"highlight_disabled,omitempty"`
}

// CreateMethodRequest holds parameters for adding a catalog method.
type CreateMethodRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Sequence    int    `json:"sequence"`
	Mandatory   bool   `json:"mandatory,omitempty"`
}

// CreateEventRequest holds parameters for logging a communication event.
// ID is optional: callers doing optimistic creation send their own id so
// retries are idempotent.
type CreateEventRequest struct {
	ID        string    `json:"id,omitempty"`
	CompanyID string    `json:"company_id"`
	Method    string    `json:"method"`
	Date      time.Time `json:"date"`
	Notes     string    `json:"notes,omitempty"`
	CreatedBy string    `json:"created_by,omitempty"`
}

// ListEventsRequest holds parameters for listing events.
type ListEventsRequest struct {
	CompanyID string     `json:"company_id,omitempty"`
	Method    []string   `json:"method,omitempty"`
	Status    []string   `json:"status,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	Search    string     `json:"search,omitempty"`
	Sort      string     `json:"sort,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}

// ListEventsResponse is the response from ListEvents.
type ListEventsResponse struct {
	Events []*model.CommEvent `json:"events"`
	Total  int                `json:"total"`
}

// UpdateEventRequest holds optional parameters for updating an event.
// Nil pointer fields mean "don't change".
type UpdateEventRequest struct {
	CompanyID *string    `json:"company_id,omitempty"`
	Method    *string    `json:"method,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	Status    *string    `json:"status,omitempty"`
}
