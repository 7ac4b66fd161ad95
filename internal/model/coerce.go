package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formedit/pkg/rawdoc"
)

func toIntValue(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		if n, err := strconv.Atoi(trimmed); err == nil {
			return n, true
		}
	}
	return 0, false
}

// resolveColSpan accepts the number 2 or the exact string "2"; everything
// else, including absence, is a single column.
func resolveColSpan(node *rawdoc.Node) int {
	if node == nil || node.Kind != rawdoc.KindScalar {
		return 1
	}
	switch v := node.Scalar.(type) {
	case string:
		if v == "2" {
			return 2
		}
	case int, int64, uint64, float64:
		if n, ok := toIntValue(v); ok && n == 2 {
			return 2
		}
	}
	return 1
}

// truthy follows loose boolean coercion: empty strings, zero, false and null
// are false; everything else, including objects, is true.
func truthy(node *rawdoc.Node) bool {
	if node.IsNull() {
		return false
	}
	if node.Kind != rawdoc.KindScalar {
		return true
	}
	switch v := node.Scalar.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case uint64:
		return v != 0
	case float64:
		return v != 0 && !math.IsNaN(v)
	default:
		return true
	}
}
