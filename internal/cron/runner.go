package cronrunner

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus describes one registered job for the ops API.
type JobStatus struct {
	Name    string    `json:"name"`
	Spec    string    `json:"spec"`
	NextRun time.Time `json:"next_run"`
}

type entry struct {
	id       cron.EntryID
	spec     string
	schedule cron.Schedule
}

// Runner schedules named jobs on a shared gateway session. Jobs are
// serialized under runMu: the gateway allows one client session, so two
// jobs must never overlap.
type Runner struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context

	mu      sync.Mutex
	entries map[string]entry

	runMu sync.Mutex
}

func New(logger *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{logger: logger}
	return &Runner{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		logger:  logger,
		baseCtx: baseCtx,
		entries: make(map[string]entry),
	}
}

// Register schedules job under name. Registering the same name again
// replaces the previous schedule.
func (r *Runner) Register(name, spec string, job func(context.Context) error) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.entries[name]; ok {
		r.cron.Remove(prev.id)
	}

	id := r.cron.Schedule(schedule, cron.FuncJob(func() {
		r.runMu.Lock()
		defer r.runMu.Unlock()

		start := time.Now()
		r.logger.Info("job started", zap.String("job", name))
		if err := job(r.baseCtx); err != nil {
			r.logger.Error("job failed",
				zap.String("job", name),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
			return
		}
		r.logger.Info("job finished",
			zap.String("job", name),
			zap.Duration("elapsed", time.Since(start)),
		)
	}))
	r.entries[name] = entry{id: id, spec: spec, schedule: schedule}
	return nil
}

// Jobs reports every registered job. Next-run times come from the parsed
// schedule, so they are available before Start.
func (r *Runner) Jobs() []JobStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	statuses := make([]JobStatus, 0, len(r.entries))
	for name, e := range r.entries {
		statuses = append(statuses, JobStatus{
			Name:    name,
			Spec:    e.spec,
			NextRun: e.schedule.Next(now),
		})
	}
	return statuses
}

func (r *Runner) Start() {
	r.logger.Info("cron started")
	r.cron.Start()
}

func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("cron stopped")
}

// cronLogger adapts zap to the cron library's logging interface.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
