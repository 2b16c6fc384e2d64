package swagger

import (
	"regexp"
	"strings"

	"github.com/vitalvas/reqspec/spec"
)

// RouteNode is one node of a route tree. A node that carries a RouteSpec is
// a leaf route; a node with children is a container such as a mounted
// sub-router. Fragment is the path piece the node adds to its parent.
type RouteNode interface {
	Fragment() string
	RouteSpec() *spec.RouteSpec
	Children() []RouteNode
}

// Resource is a route discovered by Collect: its full path template and the
// specification attached to it.
type Resource struct {
	Path string
	Spec *spec.RouteSpec
}

// Collect walks the tree below root depth-first and returns every route
// that carries a specification, in registration order. Fragments are
// joined onto prefix and the result is normalized once per resource.
// Routes without a specification are skipped.
func Collect(root RouteNode, prefix string) []Resource {
	if root == nil {
		return nil
	}

	var out []Resource
	collect(root, prefix, &out)
	return out
}

func collect(node RouteNode, prefix string, out *[]Resource) {
	for _, child := range node.Children() {
		if child == nil {
			continue
		}

		joined := prefix + child.Fragment()

		if rs := child.RouteSpec(); rs != nil {
			*out = append(*out, Resource{Path: NormalizePath(joined), Spec: rs})
			continue
		}

		collect(child, joined, out)
	}
}

var (
	// colonParamRegexp matches express-style ":name" segments, with an
	// optional inline pattern "(...)" and optional marker "?".
	colonParamRegexp = regexp.MustCompile(`(^|/):(\w+)(\([^)]*\))?\??`)

	duplicateSlashRegexp = regexp.MustCompile(`/{2,}`)
)

// NormalizePath converts a joined route template into a Swagger path:
// duplicate slashes collapse, ":name" placeholders become "{name}" and
// gorilla "{name:pattern}" placeholders lose their pattern.
//
//	"/a//b/:id"          -> "/a/b/{id}"
//	"/users/{id:[0-9]+}" -> "/users/{id}"
func NormalizePath(p string) string {
	p = stripVariablePatterns(p)
	p = colonParamRegexp.ReplaceAllString(p, "$1{$2}")
	p = duplicateSlashRegexp.ReplaceAllString(p, "/")

	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// stripVariablePatterns rewrites "{name:pattern}" to "{name}". Patterns may
// contain balanced braces such as "[0-9]{3}".
func stripVariablePatterns(p string) string {
	if !strings.Contains(p, "{") {
		return p
	}

	var b strings.Builder
	b.Grow(len(p))

	for i := 0; i < len(p); i++ {
		if p[i] != '{' {
			b.WriteByte(p[i])
			continue
		}

		depth := 0
		end := -1
		for j := i; j < len(p); j++ {
			switch p[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				end = j
				break
			}
		}

		if end < 0 {
			b.WriteString(p[i:])
			break
		}

		name, _, _ := strings.Cut(p[i+1:end], ":")
		b.WriteString("{" + strings.TrimSpace(name) + "}")
		i = end
	}

	return b.String()
}
