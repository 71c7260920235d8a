package cron

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const (
	defaultReconcileSpec    = "0 */5 * * * *"
	defaultMediaCleanupSpec = "0 0 * * * *"
)

type Manager struct {
	engine              *cron.Cron
	reconcileSpec       string
	mediaCleanupSpec    string
	counterReconcileJob *job.CounterReconcileJob
	mediaCleanupJob     *job.MediaCleanupJob
}

func NewCronManager(
	cfg config.CronConfig,
	counterReconcileJob *job.CounterReconcileJob,
	mediaCleanupJob *job.MediaCleanupJob,
) *Manager {
	reconcileSpec := cfg.CounterReconcile
	if reconcileSpec == "" {
		reconcileSpec = defaultReconcileSpec
	}
	mediaCleanupSpec := cfg.MediaCleanup
	if mediaCleanupSpec == "" {
		mediaCleanupSpec = defaultMediaCleanupSpec
	}
	return &Manager{
		engine:              cron.New(cron.WithSeconds()),
		reconcileSpec:       reconcileSpec,
		mediaCleanupSpec:    mediaCleanupSpec,
		counterReconcileJob: counterReconcileJob,
		mediaCleanupJob:     mediaCleanupJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.reconcileSpec, s.counterReconcileJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(s.mediaCleanupSpec, s.mediaCleanupJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("cron engine started", "reconcile", s.reconcileSpec, "mediaCleanup", s.mediaCleanupSpec)
	s.engine.Start()
}

func (s *Manager) Entries() []cron.Entry {
	return s.engine.Entries()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("cron engine stopping")
	<-s.engine.Stop().Done()
}
