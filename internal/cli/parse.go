package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ben-ranford/depsweep/internal/analysis"
	"github.com/ben-ranford/depsweep/internal/app"
	"github.com/ben-ranford/depsweep/internal/config"
	"github.com/ben-ranford/depsweep/internal/report"
	"github.com/spf13/cobra"
)

var (
	ErrHelpRequested    = errors.New("help requested")
	ErrVersionRequested = errors.New("version requested")
)

// Invocation is a parsed command line merged with the project's rc file.
type Invocation struct {
	Request    app.Request
	Verbose    bool
	ConfigPath string
}

type commandFlags struct {
	ignoreBinPackage bool
	skipMissing      bool
	json             bool
	format           string
	ignores          []string
	ignoreDirs       []string
	prodMatches      []string
	parsers          string
	detectors        []string
	specials         []string
	concurrency      int
	configPath       string
	metricsPath      string
	verbose          bool
	version          bool
}

func newCommand(flags *commandFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:           commandUse,
		Short:         commandShort,
		Long:          commandLong,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	applyUsageTemplate(cmd)

	fs := cmd.Flags()
	fs.BoolVar(&flags.ignoreBinPackage, "ignore-bin-package", false, "ignore dependencies that install executables")
	fs.BoolVar(&flags.skipMissing, "skip-missing", false, "skip calculation of missing dependencies")
	fs.BoolVar(&flags.json, "json", false, "output results as JSON (same as --format json)")
	fs.StringVar(&flags.format, "format", string(report.FormatTable), "output format: table or json")
	fs.StringSliceVar(&flags.ignores, "ignores", nil, "comma separated package name patterns to ignore")
	fs.StringSliceVar(&flags.ignoreDirs, "ignore-dirs", nil, "comma separated directory names to skip, added to the defaults")
	fs.StringSliceVar(&flags.prodMatches, "prod-dependency-matches", nil, "comma separated path patterns of production files")
	fs.StringVar(&flags.parsers, "parsers", "", `comma separated glob:parser pairs, parsers joined by '&' (e.g. "**/*.js:jsx&es6")`)
	fs.StringSliceVar(&flags.detectors, "detectors", nil, "comma separated detector list")
	fs.StringSliceVar(&flags.specials, "specials", nil, "comma separated special parser list")
	fs.IntVar(&flags.concurrency, "concurrency", 0, "maximum files analysed in parallel (default: 4 x CPUs)")
	fs.StringVar(&flags.configPath, "config", "", "config file path (default: discover .depsweeprc*)")
	fs.StringVar(&flags.metricsPath, "metrics-file", "", "write Prometheus metrics to this textfile")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging on stderr")
	fs.BoolVar(&flags.version, "version", false, "show version number")
	return cmd
}

func ParseArgs(args []string) (Invocation, error) {
	var (
		flags  commandFlags
		inv    Invocation
		helped bool
	)
	cmd := newCommand(&flags)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetHelpFunc(func(*cobra.Command, []string) { helped = true })
	cmd.RunE = func(cmd *cobra.Command, positional []string) error {
		if flags.version {
			return nil
		}
		resolved, err := flags.resolve(cmd, positional)
		inv = resolved
		return err
	}

	// cobra falls back to os.Args when args is nil.
	cmd.SetArgs(append([]string{}, args...))
	if err := cmd.Execute(); err != nil {
		return inv, err
	}
	switch {
	case helped:
		return inv, ErrHelpRequested
	case flags.version:
		return inv, ErrVersionRequested
	}
	return inv, nil
}

// resolve builds the request: defaults, then the rc file, then every flag
// set on the command line.
func (f *commandFlags) resolve(cmd *cobra.Command, positional []string) (Invocation, error) {
	inv := Invocation{Request: app.DefaultRequest(), Verbose: f.verbose}
	if len(positional) == 1 && strings.TrimSpace(positional[0]) != "" {
		inv.Request.RootDir = strings.TrimSpace(positional[0])
	}

	format, err := report.ParseFormat(f.format)
	if err != nil {
		return inv, err
	}
	if f.json {
		format = report.FormatJSON
	}
	inv.Request.Format = format
	inv.Request.MetricsPath = strings.TrimSpace(f.metricsPath)

	loaded, err := config.Load(inv.Request.RootDir, f.configPath)
	if err != nil {
		return inv, err
	}
	inv.ConfigPath = loaded.Path
	options := &inv.Request.Options
	loaded.Options.Apply(options)

	changed := cmd.Flags().Changed
	if changed("ignore-bin-package") {
		options.IgnoreBinPackage = f.ignoreBinPackage
	}
	if changed("skip-missing") {
		options.SkipMissing = f.skipMissing
	}
	if changed("ignores") {
		options.Ignores = trimList(f.ignores)
	}
	if changed("ignore-dirs") {
		options.IgnoreDirs = trimList(f.ignoreDirs)
	}
	if changed("prod-dependency-matches") {
		options.ProdDependencyMatches = trimList(f.prodMatches)
	}
	if changed("detectors") {
		options.Detectors = trimList(f.detectors)
	}
	if changed("specials") {
		options.Specials = trimList(f.specials)
	}
	if changed("parsers") {
		bindings, err := parseParsers(f.parsers)
		if err != nil {
			return inv, err
		}
		options.Parsers = bindings
	}
	if changed("concurrency") {
		if f.concurrency < 0 {
			return inv, fmt.Errorf("--concurrency must be >= 0")
		}
		options.Concurrency = f.concurrency
	}
	return inv, nil
}

// parseParsers reads "glob:id&id,glob:id" into bindings, keeping the order
// given. A repeated glob adds to the earlier binding.
func parseParsers(value string) ([]analysis.ParserBinding, error) {
	bindings := make([]analysis.ParserBinding, 0)
	index := make(map[string]int)
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		pattern, ids, ok := strings.Cut(pair, ":")
		pattern = strings.TrimSpace(pattern)
		if !ok || pattern == "" {
			return nil, fmt.Errorf("invalid --parsers entry %q: expected glob:parser", pair)
		}
		parsers := trimList(strings.Split(ids, "&"))
		if len(parsers) == 0 {
			return nil, fmt.Errorf("invalid --parsers entry %q: no parser given", pair)
		}

		if pos, seen := index[pattern]; seen {
			bindings[pos].Parsers = append(bindings[pos].Parsers, parsers...)
			continue
		}
		index[pattern] = len(bindings)
		bindings = append(bindings, analysis.ParserBinding{Pattern: pattern, Parsers: parsers})
	}
	return bindings, nil
}

func trimList(values []string) []string {
	trimmed := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			trimmed = append(trimmed, value)
		}
	}
	return trimmed
}
