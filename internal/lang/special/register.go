// Package special holds parsers for configuration files that reference
// dependencies without importing them. They are matched against every file
// but only accept the configuration files they understand, and return
// dependency names directly.
package special

import (
	"errors"

	"github.com/ben-ranford/depsweep/internal/language"
	"github.com/ben-ranford/depsweep/internal/manifest"
)

// DefaultSpecials lists the special parser ids used when none are configured.
var DefaultSpecials = []string{BinID, IstanbulID}

func Register(reg *language.Registry, resolver *manifest.Resolver) error {
	return errors.Join(
		reg.RegisterSpecial(NewBin(resolver)),
		reg.RegisterSpecial(NewIstanbul()),
	)
}
