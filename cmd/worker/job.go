package main

import (
	"context"
	"time"

	"github.com/alexdunne/not-so-smart-cal/scheduler/audit"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type RangeAuditor interface {
	AuditRange(ctx context.Context, from time.Time, days, workers int) (audit.Summary, error)
}

// auditJob re-audits the next days dates on a cron schedule. It catches
// drift the message consumer misses, such as messages lost while the
// worker was down.
type auditJob struct {
	auditor RangeAuditor
	days    int
	workers int
	loc     *time.Location
	logger  *zap.Logger

	now func() time.Time
}

func (j *auditJob) schedule(ctx context.Context, spec string) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(j.loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	if _, err := c.AddFunc(spec, func() { j.run(ctx) }); err != nil {
		return nil, errors.Wrapf(err, "invalid audit schedule %q", spec)
	}
	return c, nil
}

func (j *auditJob) run(ctx context.Context) {
	now := time.Now
	if j.now != nil {
		now = j.now
	}
	today := now().In(j.loc)

	j.logger.Info("starting background audit",
		zap.Time("from", today),
		zap.Int("days", j.days),
		zap.Int("workers", j.workers),
	)

	if _, err := j.auditor.AuditRange(ctx, today, j.days, j.workers); err != nil {
		j.logger.Warn("background audit interrupted", zap.Error(err))
	}
}
