package app

import (
	"github.com/ben-ranford/depsweep/internal/analysis"
	"github.com/ben-ranford/depsweep/internal/report"
)

type Request struct {
	RootDir string
	Format  report.Format
	// MetricsPath, when set, receives the run's metrics in the Prometheus
	// textfile format.
	MetricsPath string
	Options     analysis.Request
}

func DefaultRequest() Request {
	return Request{
		RootDir: ".",
		Format:  report.FormatTable,
	}
}
