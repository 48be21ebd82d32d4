package cli

import "github.com/spf13/cobra"

// Version is reported by --version. Release builds set it with -ldflags.
var Version = "dev"

const (
	commandUse   = "depsweep [DIRECTORY]"
	commandShort = "Find unused and missing dependencies of a JavaScript project"
	commandLong  = `depsweep reads DIRECTORY/package.json (default: the current directory),
scans the project's source files and reports declared dependencies that are
never referenced and referenced packages that are never declared.

Exit codes: 0 no issues, 1 runtime error, 2 usage or configuration error,
3 issues found.`
)

func Usage() string {
	cmd := newCommand(&commandFlags{})
	return cmd.Long + "\n\n" + cmd.UsageString()
}

// usageTemplate drops cobra's help command hints, which do not apply to a
// command without subcommands.
const usageTemplate = `Usage:
  {{.UseLine}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
`

func applyUsageTemplate(cmd *cobra.Command) {
	cmd.SetUsageTemplate(usageTemplate)
}
