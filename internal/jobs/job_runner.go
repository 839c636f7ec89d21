package jobs

import (
	"biblioteca-backend/internal/config"
	"biblioteca-backend/internal/logger"
	"biblioteca-backend/internal/repository"
	"biblioteca-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	loans  repository.LoanRepository
	email  service.EmailService
	config *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(loans repository.LoanRepository, email service.EmailService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		loans:  loans,
		email:  email,
		config: cfg,
	}
}

// Config exposes the runner configuration to the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllDailyJobs runs all daily jobs (for manual execution)
func (jr *JobRunner) RunAllDailyJobs() {
	jr.SendOverdueReminders()
}
