package jobs

import (
	"context"
	"log/slog"
	"time"

	"warehouse/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// TaskRetirementJob manages the scheduled retirement of finished tasks.
// Runs every minute to stamp tasks whose items are all terminal with a
// retirement timestamp. Retirement is logical; nothing is deleted.
type TaskRetirementJob struct {
	handler commands.RetireTasksCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewTaskRetirementJob creates a new job for retiring finished tasks.
// Uses RetireTasksCommandHandler to process retirement once a minute.
func NewTaskRetirementJob(handler commands.RetireTasksCommandHandler, logger *slog.Logger) *TaskRetirementJob {
	return &TaskRetirementJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "task_retirement_job"),
	}
}

// Start begins the task retirement job to run every minute.
func (j *TaskRetirementJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewRetireTasksCommand(time.Now().UTC())
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Task retirement command rejected", "error", cmdErr)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Task retirement job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Task retirement job started (running every minute)")
	return nil
}

// Stop stops the task retirement job.
func (j *TaskRetirementJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Task retirement job stopped")
}
