// Package notifier provides desktop notifications for site events
package notifier

import (
	"fmt"
	"time"

	"github.com/foreman/foreman/pkg/logger"
	"github.com/foreman/foreman/pkg/types"
	"github.com/gen2brain/beeep"
)

// Notifier is told about the outcome of every allocation cycle
type Notifier interface {
	NotifyCycle(report *types.CycleReport)
	NotifyWorkerReturned(name string)
}

// SendFunc delivers a single notification
type SendFunc func(title, message string) error

// Config represents notification configuration
type Config struct {
	Enabled bool
	// Beep plays a sound when labour runs out mid-task
	Beep bool
}

// SiteNotifier sends desktop notifications through beeep
type SiteNotifier struct {
	enabled bool
	beep    bool
	send    SendFunc
	logger  logger.Logger
}

// New creates a new site notifier
func New(config Config, log logger.Logger) *SiteNotifier {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &SiteNotifier{
		enabled: config.Enabled,
		beep:    config.Beep,
		send:    func(title, message string) error { return beeep.Notify(title, message, "") },
		logger:  log,
	}
}

// WithSender replaces the delivery function (for testing)
func (n *SiteNotifier) WithSender(send SendFunc) *SiteNotifier {
	n.send = send
	return n
}

// NotifyCycle reports completed, deferred and aborted tasks of a cycle
func (n *SiteNotifier) NotifyCycle(report *types.CycleReport) {
	if !n.enabled || report == nil {
		return
	}

	if report.Skipped {
		n.sendNotification("🌧 No work today", fmt.Sprintf("Weather is %s", report.Weather))
		return
	}

	if len(report.Completed) > 0 {
		n.sendNotification("✅ Tasks completed",
			fmt.Sprintf("%d task(s) done in %s", len(report.Completed), formatDuration(report.Duration)))
	}

	if len(report.Deferred) > 0 {
		n.sendNotification("⏳ Tasks waiting for resources",
			fmt.Sprintf("%d task(s) will be retried", len(report.Deferred)))
	}

	if report.Aborted != nil {
		n.sendNotification("❌ Crew exhausted",
			fmt.Sprintf("%s: %v", report.Aborted.Name, types.ErrWorkerCapacityExhausted))
		if n.beep {
			if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
				n.logger.Debug("Failed to play sound", logger.WithField("error", err))
			}
		}
	}
}

// NotifyWorkerReturned reports a worker back from break
func (n *SiteNotifier) NotifyWorkerReturned(name string) {
	if !n.enabled {
		return
	}
	n.sendNotification("👷 Worker back", fmt.Sprintf("%s is now available", name))
}

func (n *SiteNotifier) sendNotification(title, message string) {
	if err := n.send(title, message); err != nil {
		n.logger.Debug("Failed to send notification", logger.WithField("error", err))
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
