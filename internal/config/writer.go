package config

import (
	"fmt"
	"strconv"
	"strings"
)

// updateConfigPreservingComments rewrites the value of every known key
// present in content from cfg (whether or not it changed), line by line,
// preserving every comment, blank line, and the original indentation. Insertions are not supported: only keys already present in
// content can be updated. This mirrors the teacher's hand-edited descriptor
// philosophy rather than a serialize-and-overwrite approach.
func updateConfigPreservingComments(content string, cfg *ProjectConfig) string {
	set := func(c, section, key, value string) string {
		return updateTOMLValue(c, section, key, value)
	}

	content = set(content, "project", "name", quote(cfg.Project.Name))
	content = set(content, "project", "description", quote(cfg.Project.Description))

	content = set(content, "directories", "use_case_dir", quote(cfg.Directories.UseCaseDir))
	content = set(content, "directories", "test_dir", quote(cfg.Directories.TestDir))
	if cfg.Directories.TemplateDir != "" {
		content = set(content, "directories", "template_dir", quote(cfg.Directories.TemplateDir))
	}
	if cfg.Directories.DataDir != "" {
		content = set(content, "directories", "data_dir", quote(cfg.Directories.DataDir))
	}
	content = set(content, "directories", "actor_dir", quote(cfg.Directories.ActorDir))

	content = set(content, "templates", "methodologies", quoteArray(cfg.Templates.Methodologies))
	content = set(content, "templates", "default_methodology", quote(cfg.Templates.DefaultMethodology))

	content = set(content, "generation", "test_language", quote(cfg.Generation.TestLanguage))
	content = set(content, "generation", "auto_generate_tests", strconv.FormatBool(cfg.Generation.AutoGenerateTests))
	content = set(content, "generation", "overwrite_test_documentation", strconv.FormatBool(cfg.Generation.OverwriteTestDocumentation))

	content = set(content, "metadata", "created", strconv.FormatBool(cfg.Metadata.Created))
	content = set(content, "metadata", "last_updated", strconv.FormatBool(cfg.Metadata.LastUpdated))

	content = set(content, "storage", "backend", quote(string(cfg.Storage.Backend)))

	return content
}

func quote(s string) string { return fmt.Sprintf("%q", s) }

func quoteArray(items []string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = quote(it)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// updateTOMLValue finds the first line within [section] (or [section.*])
// whose trimmed text begins with "key" followed by '=' or whitespace, and
// replaces only the value portion, leaving any trailing "# comment" and the
// line's original indentation untouched. A value that is itself a
// multi-line "[" ... "]" array is replaced as a whole block.
func updateTOMLValue(content, section, key, newValue string) string {
	lines := strings.Split(content, "\n")
	sectionHeader := "[" + section + "]"
	sectionPrefix := "[" + section + "."
	inTarget := false

	var out []string
	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimLeft(line, " \t")

		if strings.HasPrefix(trimmed, "[") && strings.Contains(trimmed, "]") {
			inTarget = trimmed == sectionHeader || strings.HasPrefix(trimmed, sectionPrefix)
		}

		if inTarget && matchesKey(trimmed, key) {
			eq := strings.Index(line, "=")
			if eq >= 0 {
				indent := line[:len(line)-len(trimmed)]
				afterEq := strings.TrimLeft(line[eq+1:], " \t")

				if strings.HasPrefix(afterEq, "[") && !strings.Contains(afterEq, "]") {
					// Multi-line array: consume until brackets balance.
					depth := strings.Count(afterEq, "[") - strings.Count(afterEq, "]")
					end := i
					for j := i + 1; j < len(lines) && depth > 0; j++ {
						depth += strings.Count(lines[j], "[") - strings.Count(lines[j], "]")
						end = j
					}
					out = append(out, fmt.Sprintf("%s%s = %s", indent, key, newValue))
					i = end + 1
					continue
				}

				comment := extractTrailingComment(line[eq+1:])
				if comment != "" {
					out = append(out, fmt.Sprintf("%s%s = %s  %s", indent, key, newValue, comment))
				} else {
					out = append(out, fmt.Sprintf("%s%s = %s", indent, key, newValue))
				}
				i++
				continue
			}
		}

		out = append(out, line)
		i++
	}

	return strings.Join(out, "\n")
}

// matchesKey reports whether trimmed begins with key immediately followed by
// '=' or whitespace (so "use_case_dir" doesn't match a "use_case_dir_extra" key).
func matchesKey(trimmed, key string) bool {
	if !strings.HasPrefix(trimmed, key) {
		return false
	}
	if len(trimmed) == len(key) {
		return true
	}
	next := trimmed[len(key)]
	return next == ' ' || next == '\t' || next == '='
}

// extractTrailingComment returns the "# ..." suffix of a value segment, if
// any (a naive scan; values in this config never contain '#').
func extractTrailingComment(valueSegment string) string {
	if idx := strings.Index(valueSegment, "#"); idx >= 0 {
		return strings.TrimSpace(valueSegment[idx:])
	}
	return ""
}
