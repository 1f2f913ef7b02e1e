// Package sync exports the communication tracker's data as JSONL and ships
// it to one or more backup destinations on a fixed interval.
package sync

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/groblegark/commtrack/internal/store"
)

// Destination is a backup target for the JSONL export (S3 bucket, git clone).
type Destination interface {
	// Write ships one full export to the destination.
	Write(ctx context.Context, data []byte) error
}

// Scheduler exports the full dataset on an interval and fans it out to every
// configured destination. One failed destination does not stop the others.
type Scheduler struct {
	store        store.Store
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler builds a backup scheduler over the store.
func NewScheduler(s store.Store, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:        s,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
	}
}

// Start begins periodic backups. The first export runs immediately so a
// freshly started server is backed up before the first tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for an in-flight backup to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	s.backupOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.backupOnce(ctx)
		}
	}
}

func (s *Scheduler) backupOnce(ctx context.Context) {
	var buf bytes.Buffer
	if err := ExportJSONL(ctx, s.store, &buf); err != nil {
		s.logger.Error("backup export failed", "err", err)
		return
	}
	data := buf.Bytes()

	for i, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			s.logger.Error("backup destination write failed", "destination", fmt.Sprintf("%d", i), "err", err)
		}
	}

	s.logger.Info("backup completed", "destinations", len(s.destinations), "bytes", len(data))
}
