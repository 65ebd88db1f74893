// Package jobs provides scheduled background tasks for the fulfillment engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic housekeeping the engine needs.
//
// # Available Jobs
//
// 1. TaskRetirementJob - Runs every minute to stamp tasks whose items are all
// terminal with a logical retirement timestamp. Nothing is ever deleted.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(retireTasksHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Retirement never races with live work: candidates are selected by their
// stored derived status, and the optimistic version check on the task row
// means a concurrent writer simply pushes the task to the next run.
package jobs
