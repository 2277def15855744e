package workspace

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// FullContentLimit is the size below which the whole file is inlined
	FullContentLimit = 8000
	previewLines     = 50
	importScanLines  = 50
)

// NoFileContext is rendered when no file is active
const NoFileContext = "\n\n=== NO FILE OPEN ===\nNo file is currently open in the editor.\n"

var (
	jsImportFrom   = regexp.MustCompile("from\\s+['\"`]([^'\"`]+)['\"`]")
	jsRequire      = regexp.MustCompile("require\\(['\"`]([^'\"`]+)['\"`]\\)")
	jsFunction     = regexp.MustCompile(`^(?:export\s+)?(?:async\s+)?function\s+(\w+)`)
	jsArrow        = regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?\(`)
	jsClass        = regexp.MustCompile(`^(?:export\s+)?class\s+(\w+)`)
	pyImportPrefix = regexp.MustCompile(`^(import|from)\s+`)
	pyFunction     = regexp.MustCompile(`^def\s+(\w+)`)
	pyClass        = regexp.MustCompile(`^class\s+(\w+)`)
	goImport       = regexp.MustCompile(`^import\s+(?:[\w.]+\s+)?"([^"]+)"`)
	goImportLine   = regexp.MustCompile(`^(?:[\w.]+\s+)?"([^"]+)"`)
	goFunction     = regexp.MustCompile(`^func\s+(?:\([^)]*\)\s*)?(\w+)`)
	goType         = regexp.MustCompile(`^type\s+(\w+)\s+(?:struct|interface)\b`)
)

// CurrentFileContext renders the CURRENT FILE CONTEXT block for the active
// file; an empty path renders NoFileContext
func CurrentFileContext(path, content, language string) string {
	if path == "" {
		return NoFileContext
	}

	lines := strings.Split(content, "\n")

	var sb strings.Builder
	sb.WriteString("\n\n=== CURRENT FILE CONTEXT ===\n")
	fmt.Fprintf(&sb, "File: %s\n", filepath.Base(path))
	fmt.Fprintf(&sb, "Full Path: %s\n", path)
	fmt.Fprintf(&sb, "Language: %s\n", language)
	fmt.Fprintf(&sb, "Lines: %d\n", len(lines))

	writeList(&sb, "Imports", Imports(content, language), 5)
	writeList(&sb, "Functions", Functions(content, language), 5)
	writeList(&sb, "Classes", Classes(content, language), 3)

	if len(content) < FullContentLimit {
		fmt.Fprintf(&sb, "\nFull File Content:\n```%s\n%s\n```\n", language, content)
		return sb.String()
	}

	end := previewLines
	if end > len(lines) {
		end = len(lines)
	}
	fmt.Fprintf(&sb, "\nFile Content (lines 1-%d):\n```%s\n%s\n```\n", end, language, strings.Join(lines[:end], "\n"))
	if end < len(lines) {
		sb.WriteString("\n(File continues below...)\n")
	}
	return sb.String()
}

func writeList(sb *strings.Builder, label string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	shown := items
	if len(shown) > limit {
		shown = shown[:limit]
	}
	fmt.Fprintf(sb, "%s: %s", label, strings.Join(shown, ", "))
	if len(items) > limit {
		fmt.Fprintf(sb, " (and %d more)", len(items)-limit)
	}
	sb.WriteString("\n")
}

// Imports lists unique module names imported in the first lines of content
func Imports(content, language string) []string {
	var out []string
	inGoBlock := false

	lines := strings.Split(content, "\n")
	if len(lines) > importScanLines {
		lines = lines[:importScanLines]
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch language {
		case "javascript", "typescript":
			if strings.HasPrefix(trimmed, "import ") && strings.Contains(trimmed, "from") {
				if m := jsImportFrom.FindStringSubmatch(trimmed); m != nil {
					out = appendUnique(out, m[1])
				}
			} else if strings.HasPrefix(trimmed, "const ") && strings.Contains(trimmed, "require(") {
				if m := jsRequire.FindStringSubmatch(trimmed); m != nil {
					out = appendUnique(out, m[1])
				}
			}
		case "python":
			if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "from ") {
				rest := pyImportPrefix.ReplaceAllString(trimmed, "")
				out = appendUnique(out, strings.SplitN(rest, " ", 2)[0])
			}
		case "go":
			switch {
			case trimmed == "import (":
				inGoBlock = true
			case inGoBlock && trimmed == ")":
				inGoBlock = false
			case inGoBlock:
				if m := goImportLine.FindStringSubmatch(trimmed); m != nil {
					out = appendUnique(out, m[1])
				}
			default:
				if m := goImport.FindStringSubmatch(trimmed); m != nil {
					out = appendUnique(out, m[1])
				}
			}
		}
	}
	return out
}

// Functions lists top-level function names in declaration order
func Functions(content, language string) []string {
	var patterns []*regexp.Regexp
	switch language {
	case "javascript", "typescript":
		patterns = []*regexp.Regexp{jsFunction, jsArrow}
	case "python":
		patterns = []*regexp.Regexp{pyFunction}
	case "go":
		patterns = []*regexp.Regexp{goFunction}
	}
	return matchLines(content, patterns)
}

// Classes lists class names (struct and interface types for Go)
func Classes(content, language string) []string {
	var patterns []*regexp.Regexp
	switch language {
	case "javascript", "typescript":
		patterns = []*regexp.Regexp{jsClass}
	case "python":
		patterns = []*regexp.Regexp{pyClass}
	case "go":
		patterns = []*regexp.Regexp{goType}
	}
	return matchLines(content, patterns)
}

func matchLines(content string, patterns []*regexp.Regexp) []string {
	if len(patterns) == 0 {
		return nil
	}
	var out []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		for _, p := range patterns {
			if m := p.FindStringSubmatch(trimmed); m != nil {
				out = append(out, m[1])
			}
		}
	}
	return out
}
