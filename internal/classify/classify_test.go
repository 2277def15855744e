package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableSizes(t *testing.T) {
	assert.Len(t, ModificationPatterns, 22)
	assert.Len(t, ProjectPatterns, 8)
	assert.Len(t, Keywords, 42)
}

func TestModificationPatterns_EachMatches(t *testing.T) {
	samples := map[string]string{
		`add.*function`:      "Add a helper function",
		`add.*method`:        "add a save method",
		`add.*class`:         "ADD A CLASS",
		`add.*variable`:      "add a variable",
		`modify.*file`:       "modify the file",
		`update.*code`:       "update my code",
		`fix.*bug`:           "fix this bug",
		`implement.*feature`: "implement the login feature",
		`add.*to.*file`:      "add logging to the file",
		`insert.*function`:   "insert a function",
		`create.*function`:   "create a function",
		`write.*function`:    "write a function",
		`add.*display`:       "add a display",
		`in this file`:       "what is in this file",
		`to this file`:       "add tests to this file",
		`current file`:       "explain the current file",
		`this code`:          "explain this code",
		`refactor.*code`:     "refactor the code",
		`improve.*code`:      "improve my code",
		`optimize.*code`:     "optimize the code",
		`add.*import`:        "add an import",
		`add.*export`:        "add an export",
	}

	for _, p := range ModificationPatterns {
		sample, ok := samples[p.Name]
		if !assert.True(t, ok, "missing sample for %s", p.Name) {
			continue
		}
		assert.True(t, p.Regex.MatchString(sample), "%s should match %q", p.Name, sample)
	}
}

func TestProjectPatterns_EachMatches(t *testing.T) {
	samples := map[string]string{
		`create.*app`:          "Create a todo app",
		`make.*program`:        "make a program",
		`build.*project`:       "build a new project",
		`write.*code`:          "write some code",
		`generate.*file`:       "generate a config file",
		`develop.*application`: "develop an application",
		`new.*project`:         "a new project please",
		`start.*project`:       "start a project",
	}

	for _, p := range ProjectPatterns {
		sample, ok := samples[p.Name]
		if !assert.True(t, ok, "missing sample for %s", p.Name) {
			continue
		}
		assert.True(t, p.Regex.MatchString(sample), "%s should match %q", p.Name, sample)
	}
}

func TestKeywords_EachMatches(t *testing.T) {
	for _, kw := range Keywords {
		assert.True(t, IsCodeRequest("please "+strings.ToUpper(kw)+" now"), "keyword %q", kw)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Classification
	}{
		{
			name:     "modification table first",
			input:    "Add a function to sort users",
			expected: Classification{CodeRequest: true, Table: TableModification, Match: `add.*function`},
		},
		{
			name:     "project table",
			input:    "Start a fresh project",
			expected: Classification{CodeRequest: true, Table: TableProject, Match: `start.*project`},
		},
		{
			name:     "keyword fallback",
			input:    "What is a closure in JavaScript?",
			expected: Classification{CodeRequest: true, Table: TableKeyword, Match: "script"},
		},
		{
			name:     "false positive through keyword substring",
			input:    "What happened to my laptop?",
			expected: Classification{CodeRequest: true, Table: TableKeyword, Match: "app"},
		},
		{
			name:     "plain chat",
			input:    "Hello, how are you?",
			expected: Classification{},
		},
		{
			name:     "empty",
			input:    "",
			expected: Classification{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.input))
			assert.Equal(t, tt.expected.CodeRequest, IsCodeRequest(tt.input))
		})
	}
}

func TestIsCodeRequest_Idempotent(t *testing.T) {
	inputs := []string{"hello there", "create an app", "refactor this code", "¿qué tal?"}
	for _, in := range inputs {
		first := IsCodeRequest(in)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, IsCodeRequest(in), in)
		}
	}
}

func TestIsFileModification(t *testing.T) {
	long := "function " + strings.Repeat("x", ModificationLengthThreshold)

	tests := []struct {
		name     string
		response string
		active   bool
		expected bool
	}{
		{"no active editor", "I will modify the file", false, false},
		{"modify phrase", "I will modify the loop", true, true},
		{"update phrase", "Here is the update", true, true},
		{"insert phrase", "insert this line", true, true},
		{"add function phrase", "add function below", true, true},
		{"display function phrase", "the display function", true, true},
		{"short function reply", "function greet() {}", true, true},
		{"long function reply", long, true, false},
		{"exactly at threshold", "function" + strings.Repeat(" ", ModificationLengthThreshold-len("function")), true, false},
		{"phrase matching is case-sensitive", "MODIFY", true, false},
		{"unrelated reply", "Here is a new project layout", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsFileModification(tt.response, tt.active))
		})
	}
}
