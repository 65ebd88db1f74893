package jobs

import (
	"fmt"
	"log/slog"

	"warehouse/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	taskRetirementJob *TaskRetirementJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	retireTasksHandler commands.RetireTasksCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		taskRetirementJob: NewTaskRetirementJob(retireTasksHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.taskRetirementJob.Start(); err != nil {
		return fmt.Errorf("failed to start task retirement job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.taskRetirementJob.Stop()
}
