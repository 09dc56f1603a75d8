package checker

import (
	"regexp"
	"strings"
)

// The matching grammar for import lines and instance targets lives here,
// behind two narrow functions, so it can be swapped or hardened without
// touching the crawl or graph logic.

var (
	importRe   = regexp.MustCompile(`^import\s+(.+)$`)
	instanceRe = regexp.MustCompile(`^([^{]*).\{`)
)

// ExtractImports returns the module names of an import line, or nil when
// the line is not an import. One line may import several modules.
func ExtractImports(line string) []string {
	m := importRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return nil
	}
	return strings.Fields(m[1])
}

// ExtractInstanceTarget pulls the target class out of an instance type
// signature, stripping the structure-literal tail. Text without a
// recognizable tail is returned as is.
func ExtractInstanceTarget(text string) string {
	m := instanceRe.FindStringSubmatch(text)
	if m == nil {
		return text
	}
	return strings.TrimSpace(m[1])
}
