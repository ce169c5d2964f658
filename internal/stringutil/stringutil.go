// Package stringutil provides small string transforms shared across the
// repository, template, and generation layers.
package stringutil

import "strings"

// ToSnakeCase lowercases s and replaces runs of non-alphanumeric characters
// with a single underscore, stripping leading/trailing underscores.
//
//   - "Hello World"  -> "hello_world"
//   - "UC-TEST-001"  -> "uc_test_001"
//   - "some__value"  -> "some_value"
func ToSnakeCase(s string) string {
	lower := strings.ToLower(s)
	var parts []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return strings.Join(parts, "_")
}
