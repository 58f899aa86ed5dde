package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/kanhucharan/controllermon/internal/domain"
	"github.com/kanhucharan/controllermon/internal/history"
	"github.com/kanhucharan/controllermon/internal/notify"
	"github.com/kanhucharan/controllermon/internal/probe"
	"github.com/kanhucharan/controllermon/internal/status"
)

// deliveryGrace bounds how long a notification or history append may block
// once the loop's context is gone or a cycle is wrapping up.
const deliveryGrace = 10 * time.Second

type Config struct {
	PollInterval   time.Duration
	AlertThreshold time.Duration
	ProbeTimeout   time.Duration
	Concurrency    int

	// Clock defaults to the wall clock; tests install a mock.
	Clock clock.Clock
}

// Monitor drives the probe/evaluate/notify cycle for a fixed host list.
// It is the sole writer of the controller records and the status table.
type Monitor struct {
	log      *zap.Logger
	prober   probe.Prober
	notifier notify.Notifier
	recorder history.Recorder
	table    *status.Table
	clock    clock.Clock
	cfg      Config

	hosts   []string // declaration order, fixed for the process lifetime
	records map[string]*domain.ControllerRecord
}

func New(
	log *zap.Logger,
	prober probe.Prober,
	notifier notify.Notifier,
	recorder history.Recorder,
	table *status.Table,
	hosts []string,
	cfg Config,
) *Monitor {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	records := make(map[string]*domain.ControllerRecord, len(hosts))
	for _, h := range hosts {
		records[h] = domain.NewControllerRecord(h)
		// hosts show up in the status view before their first probe lands
		table.Publish(domain.StatusEntry{Host: h, State: domain.StateUnknown})
	}

	return &Monitor{
		log:      log,
		prober:   prober,
		notifier: notifier,
		recorder: recorder,
		table:    table,
		clock:    cfg.Clock,
		cfg:      cfg,
		hosts:    hosts,
		records:  records,
	}
}

// Run executes an immediate first cycle, then one cycle per tick until ctx
// is cancelled. The in-flight cycle always completes before Run returns.
func (m *Monitor) Run(ctx context.Context) {
	m.log.Info("monitor_started",
		zap.Int("controllers", len(m.hosts)),
		zap.Duration("poll_interval", m.cfg.PollInterval),
		zap.Duration("alert_threshold", m.cfg.AlertThreshold),
	)

	m.cycle(ctx)

	t := m.clock.Ticker(m.cfg.PollInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitor_stopped")
			return
		case <-t.C:
			m.cycle(ctx)
		}
	}
}

// cycle probes every host, then feeds the results through the state machine
// and alert policy in declaration order. Nothing in here is allowed to kill
// the loop: a panic is logged and the next tick proceeds.
func (m *Monitor) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("cycle_panic", zap.Any("panic", r))
		}
	}()

	results := m.probeAll(ctx)
	now := m.clock.Now()

	for i, host := range m.hosts {
		m.apply(ctx, m.records[host], results[i], now)
	}
}

// probeAll fans probes out with bounded concurrency and returns one reading
// per host, indexed like m.hosts. A slow host delays only its own slot.
// Probes are detached from loop cancellation so a shutdown mid-cycle cannot
// turn in-flight readings into false offline transitions; each probe is
// still bounded by ProbeTimeout.
func (m *Monitor) probeAll(ctx context.Context) []bool {
	results := make([]bool, len(m.hosts))
	sem := make(chan struct{}, m.cfg.Concurrency)
	var wg sync.WaitGroup

	for i, host := range m.hosts {
		i, host := i, host
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()

			pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.ProbeTimeout)
			defer cancel()
			results[i] = m.prober.Probe(pctx, host)
		}()
	}

	wg.Wait()
	return results
}

// apply is the single-writer path for one record: state machine, publish,
// history, then alert policy. Delivery and persistence failures are logged
// and never interrupt the cycle.
func (m *Monitor) apply(ctx context.Context, rec *domain.ControllerRecord, online bool, now time.Time) {
	if tr := observe(rec, online, now); tr != nil {
		m.log.Warn("state_change",
			zap.String("host", rec.Host),
			zap.String("state", tr.To.String()),
			zap.Time("at", tr.At),
		)
		transitionsTotal.WithLabelValues(rec.Host, tr.To.String()).Inc()
		m.table.Publish(domain.StatusEntry{Host: rec.Host, State: rec.State, LastChange: rec.LastChange})

		err := m.withGrace(ctx, func(c context.Context) error { return m.recorder.Record(c, *tr) })
		if err != nil {
			m.log.Error("history_append_failed", zap.String("host", rec.Host), zap.Error(err))
		}
	}

	up := 0.0
	if online {
		up = 1.0
	}
	controllerUp.WithLabelValues(rec.Host).Set(up)

	switch evaluate(rec, now, m.cfg.AlertThreshold) {
	case actionRaise:
		subject := fmt.Sprintf("[ALERT] Controller %s offline", rec.Host)
		body := fmt.Sprintf("Controller %s has been unreachable for %d seconds.",
			rec.Host, int(now.Sub(rec.LastChange).Seconds()))
		err := m.withGrace(ctx, func(c context.Context) error { return m.notifier.Send(c, subject, body) })
		if err != nil {
			notificationsTotal.WithLabelValues("alert", "error").Inc()
			m.log.Error("alert_send_failed", zap.String("host", rec.Host), zap.Error(err))
			return // Alerted stays false, retried next cycle
		}
		rec.Alerted = true
		notificationsTotal.WithLabelValues("alert", "sent").Inc()
		m.log.Warn("alert_sent", zap.String("host", rec.Host))

	case actionClear:
		subject := fmt.Sprintf("[RECOVERED] Controller %s back online", rec.Host)
		body := fmt.Sprintf("Controller %s is reachable again at %s.",
			rec.Host, now.UTC().Format("2006-01-02 15:04:05 UTC"))
		err := m.withGrace(ctx, func(c context.Context) error { return m.notifier.Send(c, subject, body) })
		if err != nil {
			notificationsTotal.WithLabelValues("recovery", "error").Inc()
			m.log.Error("recovery_send_failed", zap.String("host", rec.Host), zap.Error(err))
		} else {
			notificationsTotal.WithLabelValues("recovery", "sent").Inc()
			m.log.Info("recovery_sent", zap.String("host", rec.Host))
		}
		// cleared unconditionally: a lost recovery notice is not retried
		rec.Alerted = false
	}
}

// withGrace runs fn detached from loop cancellation so a shutdown mid-cycle
// cannot abort an in-flight delivery or append, while still bounding it.
func (m *Monitor) withGrace(ctx context.Context, fn func(context.Context) error) error {
	gctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryGrace)
	defer cancel()
	return fn(gctx)
}
