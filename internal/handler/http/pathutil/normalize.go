// Package pathutil maps request paths to a bounded set of metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// Unmatched is the label used for every path the router does not serve.
const Unmatched = "/unmatched"

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// staticPaths are served as-is and keep their own label.
var staticPaths = map[string]bool{
	"/":         true,
	"/data":     true,
	"/datasets": true,
	"/health":   true,
	"/ready":    true,
	"/live":     true,
	"/metrics":  true,
}

// pathPatterns match routes with a path parameter.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/datasets/[^/]+$`), Template: "/datasets/:id"},
}

// NormalizePath returns the metric label for path. Query strings and a
// trailing slash are ignored. Paths outside the route table collapse into
// Unmatched so scanners cannot grow the label set.
//
//	NormalizePath("/data?table_name=natural_dev") // "/data"
//	NormalizePath("/datasets/natural_dev")        // "/datasets/:id"
//	NormalizePath("/wp-admin")                    // "/unmatched"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if path == "" {
		path = "/"
	}

	if staticPaths[path] {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return Unmatched
}

// GetExpectedCardinality returns the number of distinct labels NormalizePath can produce.
func GetExpectedCardinality() int {
	return len(staticPaths) + len(pathPatterns) + 1
}
