package js

import "strings"

// nodeBuiltinModules holds the top-level Node.js core modules, taken from
// module.builtinModules without private "_" modules or subpaths:
//
//	node -p "require('module').builtinModules.filter(m => !m.startsWith('_') && !m.includes('/')).join('\\n')"
//
// Modules that only exist behind the "node:" scheme (node:test, node:sqlite)
// are covered by IsBuiltin.
var nodeBuiltinModules = map[string]bool{
	"assert":              true,
	"async_hooks":         true,
	"buffer":              true,
	"child_process":       true,
	"cluster":             true,
	"console":             true,
	"constants":           true,
	"crypto":              true,
	"dgram":               true,
	"diagnostics_channel": true,
	"dns":                 true,
	"domain":              true,
	"events":              true,
	"fs":                  true,
	"http":                true,
	"http2":               true,
	"https":               true,
	"inspector":           true,
	"module":              true,
	"net":                 true,
	"os":                  true,
	"path":                true,
	"perf_hooks":          true,
	"process":             true,
	"punycode":            true,
	"querystring":         true,
	"readline":            true,
	"repl":                true,
	"stream":              true,
	"string_decoder":      true,
	"sys":                 true,
	"timers":              true,
	"tls":                 true,
	"trace_events":        true,
	"tty":                 true,
	"url":                 true,
	"util":                true,
	"v8":                  true,
	"vm":                  true,
	"wasi":                true,
	"worker_threads":      true,
	"zlib":                true,
}

// IsBuiltin reports whether name refers to a Node.js core module. Any
// "node:" specifier counts, as does a subpath of a core module such as
// "fs/promises".
func IsBuiltin(name string) bool {
	if strings.HasPrefix(name, "node:") {
		return true
	}
	root, _, _ := strings.Cut(name, "/")
	return nodeBuiltinModules[root]
}
