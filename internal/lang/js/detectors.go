package js

import "github.com/ben-ranford/depsweep/internal/language"

const (
	DetectorImportDeclaration            = "importDeclaration"
	DetectorRequireCallExpression        = "requireCallExpression"
	DetectorRequireResolveCallExpression = "requireResolveCallExpression"
	DetectorExportDeclaration            = "exportDeclaration"
	DetectorGruntLoadTaskCallExpression  = "gruntLoadTaskCallExpression"
	DetectorImportCallExpression         = "importCallExpression"
	DetectorTypeScriptImportEquals       = "typescriptImportEqualsDeclaration"
)

// DefaultDetectors lists the detector ids used when none are configured.
var DefaultDetectors = []string{
	DetectorImportDeclaration,
	DetectorRequireCallExpression,
	DetectorRequireResolveCallExpression,
	DetectorExportDeclaration,
	DetectorGruntLoadTaskCallExpression,
	DetectorImportCallExpression,
	DetectorTypeScriptImportEquals,
}

func detectors() []language.Detector {
	return []language.Detector{
		nodeDetector(DetectorImportDeclaration, "import_statement", sourceField),
		nodeDetector(DetectorRequireCallExpression, "call_expression", requireCall),
		nodeDetector(DetectorRequireResolveCallExpression, "call_expression", requireResolveCall),
		nodeDetector(DetectorExportDeclaration, "export_statement", sourceField),
		nodeDetector(DetectorGruntLoadTaskCallExpression, "call_expression", gruntLoadTaskCall),
		nodeDetector(DetectorImportCallExpression, "call_expression", dynamicImportCall),
		nodeDetector(DetectorTypeScriptImportEquals, "import_require_clause", importRequireClause),
	}
}

// nodeDetector runs match on tree-sitter nodes of the given type and ignores
// everything else, including nodes from other parsers.
func nodeDetector(id, nodeType string, match func(Node) (string, bool)) language.Detector {
	return language.NewDetector(id, func(node language.Node, _ language.DependencySet) ([]string, error) {
		n, ok := node.(Node)
		if !ok || n.Type() != nodeType {
			return nil, nil
		}
		if name, ok := match(n); ok && name != "" {
			return []string{name}, nil
		}
		return nil, nil
	})
}

// import x from "a", import "a", export * from "a", export { x } from "a".
func sourceField(n Node) (string, bool) {
	source, ok := n.Field("source")
	if !ok {
		return "", false
	}
	return source.StringValue()
}

func requireCall(n Node) (string, bool) {
	callee, ok := n.Field("function")
	if !ok || callee.Type() != "identifier" || callee.Text() != "require" {
		return "", false
	}
	return firstArgument(n)
}

func requireResolveCall(n Node) (string, bool) {
	if !isMemberCall(n, "require", "resolve") {
		return "", false
	}
	return firstArgument(n)
}

// grunt.loadNpmTasks("grunt-contrib-x"), on any receiver.
func gruntLoadTaskCall(n Node) (string, bool) {
	if !isMemberCall(n, "", "loadNpmTasks") {
		return "", false
	}
	return firstArgument(n)
}

func dynamicImportCall(n Node) (string, bool) {
	callee, ok := n.Field("function")
	if !ok || callee.Type() != "import" {
		return "", false
	}
	return firstArgument(n)
}

// import x = require("a")
func importRequireClause(n Node) (string, bool) {
	if source, ok := n.Field("source"); ok {
		return source.StringValue()
	}
	for _, child := range n.NamedChildren() {
		if child.Type() == "string" {
			return child.StringValue()
		}
	}
	return "", false
}

func isMemberCall(n Node, object, property string) bool {
	callee, ok := n.Field("function")
	if !ok || callee.Type() != "member_expression" {
		return false
	}
	prop, ok := callee.Field("property")
	if !ok || prop.Text() != property {
		return false
	}
	if object == "" {
		return true
	}
	obj, ok := callee.Field("object")
	return ok && obj.Type() == "identifier" && obj.Text() == object
}

func firstArgument(n Node) (string, bool) {
	args, ok := n.Field("arguments")
	if !ok {
		return "", false
	}
	children := args.NamedChildren()
	if len(children) == 0 {
		return "", false
	}
	return children[0].StringValue()
}
