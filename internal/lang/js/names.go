package js

import "strings"

// PackageRootName reduces a module specifier to the package that provides
// it: "lodash/fp" becomes "lodash" and "@babel/core/lib/x" becomes
// "@babel/core". Relative specifiers collapse to "." or ".." and absolute
// paths to "", which callers drop.
func PackageRootName(specifier string) string {
	specifier = strings.TrimSpace(specifier)
	if specifier == "" {
		return ""
	}

	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// TypesPackageName returns the DefinitelyTyped package for name:
// "react" becomes "@types/react" and "@babel/core" becomes
// "@types/babel__core".
func TypesPackageName(name string) string {
	if scope, rest, ok := strings.Cut(name, "/"); ok && strings.HasPrefix(scope, "@") {
		return "@types/" + strings.TrimPrefix(scope, "@") + "__" + rest
	}
	return "@types/" + name
}
