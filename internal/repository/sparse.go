package repository

import (
	"sort"
	"strconv"
	"strings"
)

// buildSet turns a sparse field map into a SET clause with positional
// placeholders starting at $1. Keys are sorted so generated SQL is
// deterministic.
func buildSet(fields map[string]any) (string, []any) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	args := make([]any, 0, len(fields))
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(" = $")
		b.WriteString(strconv.Itoa(i + 1))
		args = append(args, fields[k])
	}

	return b.String(), args
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
