package commands

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/robvandam12/breus-sub011/internal/config"
	"github.com/robvandam12/breus-sub011/pkg/core/availability"
	"github.com/robvandam12/breus-sub011/pkg/db"
	"github.com/robvandam12/breus-sub011/pkg/roster"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Database
	Roster   roster.Source
	Registry *prometheus.Registry
	Metrics  *availability.Metrics
	Logger   *zap.Logger
	Ctx      context.Context
}

// NewProbe builds a probe against the configured store
func (a *AppContext) NewProbe() *availability.Probe {
	return availability.NewProbe(a.Database, a.Logger,
		availability.WithRateLimit(a.Cfg.Availability.ProbeRatePerSec, a.Cfg.Availability.ProbeBurst),
		availability.WithProbeTimeout(a.Cfg.Availability.ProbeTimeout()),
		availability.WithProbeMetrics(a.Metrics))
}

// NewChecker builds a checker from config. opts are applied after the
// configured ones so callers can override them.
func (a *AppContext) NewChecker(opts ...availability.CheckerOption) *availability.Checker {
	base := []availability.CheckerOption{
		availability.WithDebounce(a.Cfg.Availability.Debounce()),
		availability.WithCheckerMetrics(a.Metrics),
		availability.WithBaseContext(a.Ctx),
	}
	if a.Cfg.Availability.BatchSize > 0 {
		base = append(base, availability.WithBatchSize(a.Cfg.Availability.BatchSize))
	}
	return availability.NewChecker(a.NewProbe(), a.Logger, append(base, opts...)...)
}

// NewPersonnelScanner builds a scanner over the store and roster
func (a *AppContext) NewPersonnelScanner() *availability.PersonnelScanner {
	return availability.NewPersonnelScanner(a.Database, a.Roster, a.Metrics, a.Logger)
}
