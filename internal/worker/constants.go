package worker

// Log messages for the worker pool and scheduled jobs.
const (
	LogMsgWorkerJobFailed    = "Worker job failed"
	LogMsgResetSweepStarting = "Quest reset sweep starting"
	LogMsgResetSweepComplete = "Quest reset sweep complete"
	LogMsgResetSweepUserFail = "Quest reset failed for user"
)
