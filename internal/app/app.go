package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ben-ranford/depsweep/internal/analysis"
	"github.com/ben-ranford/depsweep/internal/report"
	"github.com/ben-ranford/depsweep/internal/telemetry"
	"github.com/charmbracelet/log"
)

// ErrIssuesFound is returned, together with the formatted report, when the
// check found unused or missing dependencies.
var ErrIssuesFound = errors.New("dependency issues found")

type App struct {
	Analyzer  analysis.Analyzer
	Formatter report.Formatter
}

func New() *App {
	return &App{
		Analyzer:  analysis.NewService(),
		Formatter: report.NewFormatter(),
	}
}

// Execute runs the check and returns the formatted report. The report is
// returned alongside ErrIssuesFound so callers can print it before failing.
func (a *App) Execute(ctx context.Context, req Request) (string, error) {
	if a.Analyzer == nil {
		return "", errors.New("analyzer is not configured")
	}
	format := req.Format
	if format == "" {
		format = report.FormatTable
	}

	options := req.Options
	options.RootDir = req.RootDir
	metricsPath := strings.TrimSpace(req.MetricsPath)
	if metricsPath != "" && options.Metrics == nil {
		options.Metrics = telemetry.New()
	}

	checked, err := a.Analyzer.Run(ctx, options)
	if err != nil {
		return "", err
	}
	if err := writeMetrics(ctx, options.Metrics, metricsPath); err != nil {
		return "", err
	}

	formatted, err := a.Formatter.Format(checked, format)
	if err != nil {
		return "", err
	}
	if checked.HasIssues() {
		return formatted, ErrIssuesFound
	}
	return formatted, nil
}

func writeMetrics(ctx context.Context, metrics *telemetry.Metrics, path string) error {
	if path == "" {
		return nil
	}
	if err := metrics.WriteTextfile(path); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	log.FromContext(ctx).Debug("metrics written", "path", path)
	return nil
}
