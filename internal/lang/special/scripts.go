package special

import (
	"fmt"
	"path/filepath"

	"github.com/ben-ranford/depsweep/internal/manifest"
	"gopkg.in/yaml.v3"
)

const travisFile = ".travis.yml"

// travisLifecycle lists the build phases whose commands are scanned. The
// deploy phase holds provider settings rather than commands and is skipped.
var travisLifecycle = []string{
	"before_install",
	"install",
	"before_script",
	"script",
	"before_cache",
	"after_success",
	"after_failure",
	"before_deploy",
	"after_deploy",
	"after_script",
}

// HasScripts reports whether Scripts reads commands from files named like path.
func HasScripts(path string) bool {
	switch filepath.Base(path) {
	case manifest.FileName, travisFile:
		return true
	}
	return false
}

// Scripts returns the shell commands declared by a package.json or a
// .travis.yml file. Other files have none.
func Scripts(path string, content []byte) ([]string, error) {
	switch filepath.Base(path) {
	case manifest.FileName:
		pkg, err := manifest.Parse(path, content)
		if err != nil {
			return nil, err
		}
		scripts := make([]string, 0, len(pkg.Scripts))
		for _, name := range manifest.Names(pkg.Scripts) {
			scripts = append(scripts, pkg.Scripts[name])
		}
		return scripts, nil
	case travisFile:
		return travisScripts(path, content)
	default:
		return nil, nil
	}
}

func travisScripts(path string, content []byte) ([]string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var scripts []string
	for _, phase := range travisLifecycle {
		switch value := doc[phase].(type) {
		case string:
			scripts = append(scripts, value)
		case []any:
			for _, item := range value {
				if command, ok := item.(string); ok {
					scripts = append(scripts, command)
				}
			}
		}
	}
	return scripts, nil
}
