package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/groblegark/commtrack/internal/model"
	"github.com/groblegark/commtrack/internal/store"
)

// Snapshotter records the daily overdue-company count used by the trends
// report. It runs on a cron schedule (default "@daily").
type Snapshotter struct {
	store store.Store
	cron  *cron.Cron
}

// NewSnapshotter returns a Snapshotter that records on the given cron spec.
func NewSnapshotter(s store.Store, schedule string) (*Snapshotter, error) {
	sn := &Snapshotter{
		store: s,
		cron:  cron.New(),
	}
	if _, err := sn.cron.AddFunc(schedule, sn.record); err != nil {
		return nil, err
	}
	return sn, nil
}

// Start begins the schedule. A snapshot for today is taken immediately so a
// freshly started server has a datapoint without waiting for the next tick.
func (s *Snapshotter) Start() {
	s.record()
	s.cron.Start()
}

// Stop halts the schedule. Running jobs complete before Stop returns.
func (s *Snapshotter) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Snapshot records the overdue count for the given time's date.
// Re-recording the same date overwrites the earlier count.
func (s *Snapshotter) Snapshot(ctx context.Context, now time.Time) error {
	n, err := s.store.CountOverdueCompanies(ctx, now)
	if err != nil {
		return err
	}
	return s.store.RecordOverdueSnapshot(ctx, &model.OverdueSnapshot{
		Date:         model.DateOnly(now),
		OverdueCount: n,
	})
}

func (s *Snapshotter) record() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Snapshot(ctx, time.Now().UTC()); err != nil {
		slog.Warn("failed to record overdue snapshot", "error", err)
	}
}
