package service

import (
	"context"
	"sync"
	"time"

	"pathfinder/guide-api/internal/model"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	summaryJobName  = "daily_summary"
	summarySchedule = "@every 24h"
	summaryWindow   = 24 * time.Hour
)

// SummaryScheduler runs the daily event summary. It only ever reads from
// the database.
type SummaryScheduler struct {
	db   *gorm.DB
	cron *cron.Cron

	mu      sync.Mutex
	entry   cron.EntryID
	started bool
}

func NewSummaryScheduler(db *gorm.DB) *SummaryScheduler {
	logger := cron.PrintfLogger(zap.NewStdLog(zap.L().Named("cron")))

	return &SummaryScheduler{
		db: db,
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger)),
		),
	}
}

// Start registers the summary job and starts the runner. Calling it
// again replaces the job instead of adding a second one. Errors are
// logged, the application keeps running without the job.
func (s *SummaryScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entry != 0 {
		s.cron.Remove(s.entry)
		s.entry = 0
	}

	id, err := s.cron.AddFunc(summarySchedule, s.run)
	if err != nil {
		zap.L().Error("Failed to schedule job", zap.String("job", summaryJobName), zap.Error(err))
		return
	}
	s.entry = id

	if !s.started {
		s.cron.Start()
		s.started = true
	}

	zap.L().Info("Scheduled job", zap.String("job", summaryJobName), zap.String("schedule", summarySchedule))
}

// Stop stops the runner and waits for a running job to finish or ctx to
// expire.
func (s *SummaryScheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		zap.L().Warn("Scheduler did not stop in time", zap.Error(ctx.Err()))
	}
}

// Entries returns how many jobs are currently scheduled.
func (s *SummaryScheduler) Entries() int {
	return len(s.cron.Entries())
}

// CountRecentEvents counts the events created in the 24 hours before now.
func (s *SummaryScheduler) CountRecentEvents(ctx context.Context, now time.Time) (int64, error) {
	since := now.UTC().Add(-summaryWindow)

	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("created_at >= ?", since).
		Count(&count).
		Error

	return count, err
}

func (s *SummaryScheduler) run() {
	count, err := s.CountRecentEvents(context.Background(), time.Now())
	if err != nil {
		zap.L().Error("Failed to count recent events", zap.String("job", summaryJobName), zap.Error(err))
		return
	}

	zap.L().Info("Events in last 24h", zap.String("job", summaryJobName), zap.Int64("count", count))
}
