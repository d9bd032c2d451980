// Package cli provides the operator commands of the application.
package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/example/meterdesk/internal/config"
	"github.com/example/meterdesk/internal/logging"
	"github.com/example/meterdesk/internal/wire"
)

// Bootstrap loads configuration and wires the services. Called once at
// startup via PersistentPreRunE.
func Bootstrap() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Init(cfg.LogLevel, cfg.Environment)
	wire.Init(cfg)
	return nil
}

// NewContext creates the base context for CLI command execution.
func NewContext() context.Context {
	return context.Background()
}

// statusColor renders a cycle or assignment status with a consistent
// color per state.
func statusColor(status string) string {
	switch status {
	case "COMPLETED":
		return color.New(color.FgGreen).Sprint(status)
	case "CANCELLED":
		return color.New(color.FgRed).Sprint(status)
	case "IN_PROGRESS":
		return color.New(color.FgYellow).Sprint(status)
	case "PENDING", "OPEN":
		return color.New(color.FgCyan).Sprint(status)
	default:
		return status
	}
}

func overdueMarker(overdue bool) string {
	if !overdue {
		return ""
	}
	return color.New(color.FgHiRed).Sprint(" [overdue]")
}
