package store

import (
	"context"
	"errors"
	"time"

	"github.com/groblegark/commtrack/internal/model"
)

// ErrUnknownMethod is returned when an event references a method name that
// is not in the catalog.
var ErrUnknownMethod = errors.New("unknown communication method")

// Store defines the persistence interface for commtrack.
type Store interface {
	// Companies
	CreateCompany(ctx context.Context, c *model.Company) error
	GetCompany(ctx context.Context, id string) (*model.Company, error)
	ListCompanies(ctx context.Context) ([]*model.Company, error)
	UpdateCompany(ctx context.Context, c *model.Company) error
	SetCompanyHighlight(ctx context.Context, id string, disabled bool) (*model.Company, error)
	DeleteCompany(ctx context.Context, id string) error

	// Method catalog
	CreateMethod(ctx context.Context, m *model.Method) error
	ListMethods(ctx context.Context) ([]*model.Method, error)
	DeleteMethod(ctx context.Context, id string) error

	// Communication events. CreateEvent is idempotent by ID: inserting an
	// ID that already exists is a no-op and returns (false, nil).
	CreateEvent(ctx context.Context, e *model.CommEvent) (inserted bool, err error)
	GetEvent(ctx context.Context, id string) (*model.CommEvent, error)
	ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.CommEvent, int, error) // returns events, total count, error
	UpdateEvent(ctx context.Context, e *model.CommEvent) error
	DeleteEvent(ctx context.Context, id string) error

	// Dashboard and reporting
	LastEvents(ctx context.Context, companyID string, limit int, now time.Time) ([]*model.CommEvent, error)
	NextEvent(ctx context.Context, companyID string, now time.Time) (*model.CommEvent, error)
	CountByMethod(ctx context.Context, from, to *time.Time) (map[string]int, error)
	CountConfirmedByMethod(ctx context.Context, from, to *time.Time) (map[string]int, error)
	CountOverdueCompanies(ctx context.Context, now time.Time) (int, error)
	RecordOverdueSnapshot(ctx context.Context, s *model.OverdueSnapshot) error
	ListOverdueSnapshots(ctx context.Context, from, to *time.Time) ([]*model.OverdueSnapshot, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
