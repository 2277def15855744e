package template

import (
	"sort"
	"strings"
)

const (
	// InputPlaceholder is the standard placeholder for user input
	InputPlaceholder = "{input}"
)

// ProcessTemplate processes a message template with user input
//
// If template includes {input} placeholder, replace it with user input. Otherwise:
//   - empty template will return user input unchanged
//   - if no {input} placeholder, append user input to template with a newline
func ProcessTemplate(template, userInput string) string {
	if template == "" {
		return userInput
	}

	if strings.Contains(template, InputPlaceholder) {
		return strings.ReplaceAll(template, InputPlaceholder, userInput)
	}

	if userInput == "" {
		return template
	}

	return template + "\n" + userInput
}

// HasPlaceholder checks if a template contains the input placeholder
func HasPlaceholder(template string) bool {
	return strings.Contains(template, InputPlaceholder)
}

// Render substitutes every {name} in tmpl with vars[name] in a single pass;
// values are inserted verbatim and never expanded again
func Render(tmpl string, vars map[string]string) string {
	if len(vars) == 0 {
		return tmpl
	}

	// sorted for a deterministic replacer
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(vars)*2)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Placeholders lists the {name} tokens used in tmpl, in order of first use
func Placeholders(tmpl string) []string {
	var names []string
	seen := make(map[string]bool)

	for {
		start := strings.IndexByte(tmpl, '{')
		if start < 0 {
			break
		}
		end := strings.IndexByte(tmpl[start:], '}')
		if end < 0 {
			break
		}
		name := tmpl[start+1 : start+end]
		if isPlaceholderName(name) && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		tmpl = tmpl[start+end+1:]
	}
	return names
}

func isPlaceholderName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
