// Package classify decides whether a chat message should go through the
// file materialization pipeline, and whether a reply is a patch for the open file.
package classify

import (
	"regexp"
	"strings"
)

// Pattern is one named regex entry of a trigger table
type Pattern struct {
	Name  string
	Regex *regexp.Regexp
}

func pattern(expr string) Pattern {
	return Pattern{Name: expr, Regex: regexp.MustCompile("(?i)" + expr)}
}

// ModificationPatterns match requests to change existing code
var ModificationPatterns = []Pattern{
	pattern(`add.*function`),
	pattern(`add.*method`),
	pattern(`add.*class`),
	pattern(`add.*variable`),
	pattern(`modify.*file`),
	pattern(`update.*code`),
	pattern(`fix.*bug`),
	pattern(`implement.*feature`),
	pattern(`add.*to.*file`),
	pattern(`insert.*function`),
	pattern(`create.*function`),
	pattern(`write.*function`),
	pattern(`add.*display`),
	pattern(`in this file`),
	pattern(`to this file`),
	pattern(`current file`),
	pattern(`this code`),
	pattern(`refactor.*code`),
	pattern(`improve.*code`),
	pattern(`optimize.*code`),
	pattern(`add.*import`),
	pattern(`add.*export`),
}

// ProjectPatterns match requests to create something new
var ProjectPatterns = []Pattern{
	pattern(`create.*app`),
	pattern(`make.*program`),
	pattern(`build.*project`),
	pattern(`write.*code`),
	pattern(`generate.*file`),
	pattern(`develop.*application`),
	pattern(`new.*project`),
	pattern(`start.*project`),
}

// Keywords are substrings of the lowercased message; almost any programming
// term triggers the pipeline
var Keywords = []string{
	"create", "make", "build", "write", "generate", "develop", "code",
	"project", "app", "application", "website", "script", "program",
	"function", "class", "component", "module", "file", "folder",
	"python", "javascript", "typescript", "html", "css", "java", "cpp", "c++",
	"react", "node", "express", "flask", "django", "vue", "angular", "api",
	"add", "insert", "modify", "update", "fix", "implement", "refactor",
}

// Table identifies which trigger table matched
type Table string

const (
	TableNone         Table = ""
	TableModification Table = "modification"
	TableProject      Table = "project"
	TableKeyword      Table = "keyword"
)

// Classification explains the result of Classify
type Classification struct {
	CodeRequest bool
	Table       Table
	Match       string // pattern expression or keyword that fired
}

// Classify checks the tables in order and reports the first match
func Classify(text string) Classification {
	for _, p := range ModificationPatterns {
		if p.Regex.MatchString(text) {
			return Classification{CodeRequest: true, Table: TableModification, Match: p.Name}
		}
	}

	for _, p := range ProjectPatterns {
		if p.Regex.MatchString(text) {
			return Classification{CodeRequest: true, Table: TableProject, Match: p.Name}
		}
	}

	lower := strings.ToLower(text)
	for _, kw := range Keywords {
		if strings.Contains(lower, kw) {
			return Classification{CodeRequest: true, Table: TableKeyword, Match: kw}
		}
	}

	return Classification{}
}

// IsCodeRequest reports whether text should be routed through materialization
func IsCodeRequest(text string) bool {
	return Classify(text).CodeRequest
}

// ModificationLengthThreshold bounds the "short function reply" rule
const ModificationLengthThreshold = 2000

// ModificationPhrases mark a reply as a patch for the open file
var ModificationPhrases = []string{
	"display function",
	"add function",
	"modify",
	"update",
	"insert",
}

// IsFileModification reports whether a reply should replace the active buffer
// instead of creating files. Matching is case-sensitive on the raw reply.
func IsFileModification(response string, hasActiveEditor bool) bool {
	if !hasActiveEditor {
		return false
	}

	for _, phrase := range ModificationPhrases {
		if strings.Contains(response, phrase) {
			return true
		}
	}

	return strings.Contains(response, "function") && len(response) < ModificationLengthThreshold
}
