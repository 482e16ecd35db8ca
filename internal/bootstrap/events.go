package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/safequest/engine/internal/config"
	"github.com/safequest/engine/internal/event"
	"github.com/safequest/engine/internal/logger"
	"github.com/safequest/engine/internal/metrics"
)

// InitializeEventSystem creates the in-process event bus, subscribes
// the metrics collector, and wraps the bus in the resilient publisher
// with dead-letter fallback.
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, error) {
	eventBus := event.NewMemoryBus()

	collector := metrics.NewEventCollector()
	collector.Register(eventBus)
	logger.Info(LogMsgMetricsCollectorSubscribe)

	if dir := filepath.Dir(cfg.DeadLetterPath); dir != "." {
		if err := os.MkdirAll(dir, DirPermission); err != nil {
			return nil, nil, fmt.Errorf("failed to create dead-letter directory: %w", err)
		}
	}

	publisherCfg := event.DefaultResilientConfig(cfg.DeadLetterPath)
	publisher := event.NewResilientPublisher(eventBus, publisherCfg)

	logger.Info(LogMsgEventSystemInitialized,
		"max_retries", publisherCfg.MaxRetries,
		"retry_delay", publisherCfg.RetryDelay,
		"deadletter_path", cfg.DeadLetterPath)

	return eventBus, publisher, nil
}
