package bootstrap

// File system permissions for runtime-created paths.
const (
	DirPermission     = 0755
	LogFilePermission = 0666
)

// Log file management.
const (
	LogFileTimestampFormat = "2006-01-02_15-04-05"
	LogFileNamePattern     = "session_%s.log"
	LogFileRetentionLimit  = 10
)

// Worker pool sizing. The reset sweep is the only recurring job, so
// the pool stays small.
const (
	WorkerPoolSize  = 2
	WorkerQueueSize = 16
)

// Log messages for startup and shutdown.
const (
	LogMsgShuttingDownServer        = "Shutting down server"
	LogMsgServerForcedShutdown      = "Server forced to shutdown"
	LogMsgServerStopped             = "Server stopped"
	LogMsgShuttingDownPublisher     = "Shutting down event publisher"
	LogMsgPublisherShutdownFailed   = "Event publisher shutdown failed"
	LogMsgEventSystemInitialized    = "Event system initialized"
	LogMsgMetricsCollectorSubscribe = "Metrics collector registered"
	LogMsgStoreInitialized          = "State store initialized"
	LogMsgCatalogLoaded             = "Content catalog loaded"
)
