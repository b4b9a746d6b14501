package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSchedule is how often the analytics service is probed when
// the config leaves the schedule unset
const DefaultSchedule = "@every 30s"

// HealthClient is the probe surface the monitor depends on
type HealthClient interface {
	CheckHealth(ctx context.Context) (bool, error)
}

// Status is the cached result of the most recent probe
type Status struct {
	Healthy   bool      `json:"healthy"`
	CheckedAt time.Time `json:"checked_at"`
}

// Monitor probes the analytics service on a cron schedule and caches
// the latest status so the health endpoint never blocks on upstream
type Monitor struct {
	client   HealthClient
	logger   *zap.Logger
	schedule string
	cron     *cron.Cron

	mu     sync.RWMutex
	status Status
}

// NewMonitor creates a monitor; schedule accepts cron expressions and
// descriptors like "@every 30s"
func NewMonitor(client HealthClient, schedule string, logger *zap.Logger) *Monitor {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Monitor{
		client:   client,
		logger:   logger,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start registers the probe job and begins the schedule. The first
// probe runs immediately so the cached status is never empty.
func (m *Monitor) Start() error {
	if _, err := m.cron.AddFunc(m.schedule, m.probe); err != nil {
		return fmt.Errorf("failed to register health probe: %w", err)
	}
	m.probe()
	m.cron.Start()
	m.logger.Info("Health monitor started", zap.String("schedule", m.schedule))
	return nil
}

// Stop halts the schedule and waits for a running probe to finish
func (m *Monitor) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info("Health monitor stopped")
}

// Current returns the most recent probe result
func (m *Monitor) Current() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	healthy, err := m.client.CheckHealth(ctx)
	if err != nil {
		healthy = false
	}

	m.mu.Lock()
	previous := m.status.Healthy
	m.status = Status{Healthy: healthy, CheckedAt: time.Now()}
	m.mu.Unlock()

	// Log transitions only, the schedule would flood otherwise
	if healthy != previous {
		if healthy {
			m.logger.Info("Analytics service is healthy")
		} else {
			m.logger.Warn("Analytics service is unhealthy", zap.Error(err))
		}
	}
}

// WaitUntilReady probes with exponential backoff until the service
// answers healthy, maxWait elapses or ctx is cancelled. Used at
// startup to report upstream availability without blocking serving.
func (m *Monitor) WaitUntilReady(ctx context.Context, maxWait time.Duration) error {
	operation := func() error {
		healthy, err := m.client.CheckHealth(ctx)
		if err != nil {
			return err
		}
		if !healthy {
			return errors.New("analytics service reported unhealthy")
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 10 * time.Second
	policy.MaxElapsedTime = maxWait

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return fmt.Errorf("analytics service not ready: %w", err)
	}

	m.mu.Lock()
	m.status = Status{Healthy: true, CheckedAt: time.Now()}
	m.mu.Unlock()
	return nil
}
