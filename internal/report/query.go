package report

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Query extracts one value from a JSON report document. The expression may
// be a gjson path ("reports.0.stats.latencies.p99") or a simple JSONPath
// ("$.reports[0].stats.latencies.p99").
func Query(doc []byte, expr string) (string, error) {
	if len(doc) == 0 {
		return "", fmt.Errorf("empty report")
	}
	if expr == "" {
		return "", fmt.Errorf("empty query expression")
	}
	if !gjson.ValidBytes(doc) {
		return "", fmt.Errorf("report is not valid JSON")
	}

	result := gjson.GetBytes(doc, toGJSONPath(expr))
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", expr)
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// toGJSONPath converts the JSONPath subset used in practice to gjson syntax:
// "$.a[0]['b']" becomes "a.0.b".
func toGJSONPath(expr string) string {
	path := strings.TrimPrefix(expr, "$")
	if path == "" {
		return "@this"
	}

	r := strings.NewReplacer("['", ".", "']", "", `["`, ".", `"]`, "", "[", ".", "]", "")
	path = r.Replace(path)
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "@this"
	}
	return path
}
