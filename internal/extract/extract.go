// Package extract turns a model reply into file-write and shell-command intents.
//
// Three conventions are recognised, tried in order until one yields files:
//
//	FILE: path/to/file.ext     directive line followed by a fenced block
//	file.ext                   bare filename immediately followed by a fence
//	```lang ... ```            any fenced block, named generated_<n>.<ext>
//
// COMPILE:, RUN: and TEST: lines are collected independently of the file form.
package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Strategy reports which convention produced the files of a Result
type Strategy int

const (
	NoFiles Strategy = iota
	Directive
	InlineFilename
	BareBlocks
)

func (s Strategy) String() string {
	switch s {
	case Directive:
		return "directive"
	case InlineFilename:
		return "inline-filename"
	case BareBlocks:
		return "bare-blocks"
	default:
		return "no-files"
	}
}

// ExtractedFile is a single file-write intent
type ExtractedFile struct {
	Path    string
	Content string
}

// Commands holds the shell commands found in a reply; empty means absent
type Commands struct {
	Compile string
	Run     string
	Test    string
}

// Empty reports whether no command was found
func (c Commands) Empty() bool {
	return c.Compile == "" && c.Run == "" && c.Test == ""
}

// CodeBlock is one closed fence in order of appearance
type CodeBlock struct {
	Language string
	Content  string
}

// Result is the tagged outcome of Extract
type Result struct {
	Strategy Strategy
	Files    []ExtractedFile
	Commands Commands
}

// HasFiles reports whether any strategy produced files
func (r Result) HasFiles() bool {
	return r.Strategy != NoFiles && len(r.Files) > 0
}

const (
	filePrefix    = "FILE:"
	compilePrefix = "COMPILE:"
	runPrefix     = "RUN:"
	testPrefix    = "TEST:"
	fence         = "```"
)

var (
	// filename.ext, optional spaces, line break(s), fence with optional tag, body, closing fence
	inlineFilenameRegex = regexp.MustCompile("([A-Za-z0-9_.-]+\\.[A-Za-z]+)\\s*[\\r\\n]+```\\w*[\\r\\n]+([\\s\\S]*?)[\\r\\n]+```")

	// fence with optional tag, body, closing fence on its own line
	codeBlockRegex = regexp.MustCompile("```(\\w+)?\\s*\\n([\\s\\S]*?)\\n```")
)

// languageExtensions maps fence tags to file extensions
var languageExtensions = map[string]string{
	"javascript": "js",
	"typescript": "ts",
	"python":     "py",
	"java":       "java",
	"cpp":        "cpp",
	"c":          "c",
	"html":       "html",
	"css":        "css",
	"json":       "json",
	"xml":        "xml",
	"yaml":       "yml",
	"sh":         "sh",
	"bash":       "sh",
	"powershell": "ps1",
}

// Extract runs the three file strategies in order and collects commands
func Extract(text string) Result {
	result := Result{Commands: ExtractCommands(text)}

	if files := ExtractDirectives(text); len(files) > 0 {
		result.Strategy = Directive
		result.Files = files
		return result
	}

	if files := ExtractInlineFilenames(text); len(files) > 0 {
		result.Strategy = InlineFilename
		result.Files = files
		return result
	}

	if files := FilesFromBlocks(CodeBlocks(text)); len(files) > 0 {
		result.Strategy = BareBlocks
		result.Files = files
		return result
	}

	return result
}

// ExtractDirectives parses FILE: lines and the first fenced block after each
func ExtractDirectives(text string) []ExtractedFile {
	var files []ExtractedFile

	var (
		currentPath string
		content     []string
		capturing   bool
		closed      bool
	)

	flush := func() {
		// unterminated fences are dropped
		if currentPath != "" && closed {
			files = append(files, ExtractedFile{
				Path:    currentPath,
				Content: strings.TrimSpace(strings.Join(content, "\n")),
			})
		}
		currentPath = ""
		content = nil
		capturing = false
		closed = false
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, filePrefix):
			flush()
			currentPath = cleanPath(line[len(filePrefix):])

		case strings.HasPrefix(line, fence) && currentPath != "" && !closed:
			if capturing {
				capturing = false
				closed = true
			} else {
				capturing = true
			}

		case capturing:
			content = append(content, strings.TrimRight(raw, "\r"))
		}
	}
	flush()

	return files
}

// ExtractInlineFilenames pairs a bare filename token with the fence right after it
func ExtractInlineFilenames(text string) []ExtractedFile {
	var files []ExtractedFile
	for _, m := range inlineFilenameRegex.FindAllStringSubmatch(text, -1) {
		files = append(files, ExtractedFile{
			Path:    m[1],
			Content: strings.TrimSpace(m[2]),
		})
	}
	return files
}

// CodeBlocks returns every closed fence; untagged fences get language "text"
func CodeBlocks(text string) []CodeBlock {
	var blocks []CodeBlock
	for _, m := range codeBlockRegex.FindAllStringSubmatch(text, -1) {
		language := m[1]
		if language == "" {
			language = "text"
		}
		blocks = append(blocks, CodeBlock{
			Language: language,
			Content:  strings.TrimSpace(m[2]),
		})
	}
	return blocks
}

// FilesFromBlocks names each block generated_<n>.<ext>, n starting at 1
func FilesFromBlocks(blocks []CodeBlock) []ExtractedFile {
	files := make([]ExtractedFile, 0, len(blocks))
	for i, block := range blocks {
		files = append(files, ExtractedFile{
			Path:    fmt.Sprintf("generated_%d.%s", i+1, ExtensionForLanguage(block.Language)),
			Content: block.Content,
		})
	}
	return files
}

// ExtensionForLanguage maps a fence tag to an extension, txt when unknown
func ExtensionForLanguage(language string) string {
	if ext, ok := languageExtensions[strings.ToLower(strings.TrimSpace(language))]; ok {
		return ext
	}
	return "txt"
}

// ExtractCommands collects COMPILE:, RUN: and TEST: lines; the last one of each kind wins
func ExtractCommands(text string) Commands {
	var cmds Commands
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, compilePrefix):
			setCommand(&cmds.Compile, line[len(compilePrefix):])
		case strings.HasPrefix(line, runPrefix):
			setCommand(&cmds.Run, line[len(runPrefix):])
		case strings.HasPrefix(line, testPrefix):
			setCommand(&cmds.Test, line[len(testPrefix):])
		}
	}
	return cmds
}

func setCommand(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

// cleanPath trims whitespace and markdown backticks around a directive path
func cleanPath(p string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(p), "`"))
}
