// Package scheduler triggers the Airtable sync and the match digest on cron specs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/internal/usecase"
	"go-jobmatch-backend/pkg/logger"

	"github.com/robfig/cron/v3"
)

type Config struct {
	SyncSpec      string // e.g. "@every 6h"
	DigestSpec    string // e.g. "@weekly"; empty disables digests
	SyncOnStartup bool
	SyncTimeout   time.Duration
	DigestTimeout time.Duration
}

type Scheduler struct {
	cron   *cron.Cron
	sync   domain.SyncUsecase
	notify domain.NotificationUsecase
	cfg    Config

	ctx    context.Context
	cancel context.CancelFunc
}

// cronLogger adapts slog to cron.Logger
type cronLogger struct{ log *slog.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}

func New(syncUC domain.SyncUsecase, notifyUC domain.NotificationUsecase, cfg Config) *Scheduler {
	if cfg.SyncTimeout <= 0 {
		cfg.SyncTimeout = 15 * time.Minute
	}
	if cfg.DigestTimeout <= 0 {
		cfg.DigestTimeout = 30 * time.Minute
	}
	cl := cronLogger{log: logger.Log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		sync:   syncUC,
		notify: notifyUC,
		cfg:    cfg,
	}
}

// Start registers the jobs and starts the cron loop. The startup sync, if enabled, runs in the background.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(s.cfg.SyncSpec, func() { s.runSync(domain.SyncTriggerSchedule) }); err != nil {
		return fmt.Errorf("schedule sync %q: %w", s.cfg.SyncSpec, err)
	}
	if s.cfg.DigestSpec != "" && s.notify != nil {
		if _, err := s.cron.AddFunc(s.cfg.DigestSpec, s.runDigest); err != nil {
			return fmt.Errorf("schedule digest %q: %w", s.cfg.DigestSpec, err)
		}
	}

	s.cron.Start()
	logger.Log.Info("Scheduler started", "sync_spec", s.cfg.SyncSpec, "digest_spec", s.cfg.DigestSpec)

	if s.cfg.SyncOnStartup {
		go s.runSync(domain.SyncTriggerStartup)
	}
	return nil
}

// Stop prevents new runs and waits for running ones, up to ctx's deadline.
func (s *Scheduler) Stop(ctx context.Context) {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
		if s.cancel != nil {
			s.cancel()
		}
	}
	logger.Log.Info("Scheduler stopped")
}

func (s *Scheduler) runSync(trigger string) {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.SyncTimeout)
	defer cancel()

	result, err := s.sync.Run(ctx, trigger)
	if errors.Is(err, usecase.ErrSyncInProgress) {
		logger.Log.Info("Scheduled sync skipped, another run holds the lock", "trigger", trigger)
		return
	}
	if err != nil {
		logger.Log.Error("Scheduled sync did not run", "trigger", trigger, "error", err)
		return
	}
	if len(result.Errors) > 0 {
		logger.Log.Warn("Scheduled sync finished with errors", "trigger", trigger, "errors", len(result.Errors))
	}
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.DigestTimeout)
	defer cancel()

	report, err := s.notify.SendDigests(ctx)
	if err != nil {
		logger.Log.Error("Scheduled digest failed", "error", err)
		return
	}
	if len(report.Errors) > 0 {
		logger.Log.Warn("Scheduled digest finished with errors", "errors", len(report.Errors), "sent", report.Sent)
	}
}
