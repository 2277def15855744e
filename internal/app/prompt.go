package app

import (
	"strings"

	"github.com/chriscorrea/astrelium/internal/template"
)

const projectAnalysisPrefix = "PROJECT ANALYSIS: "

// PromptContext is the workspace and editor state folded into a chat prompt
type PromptContext struct {
	ProjectContext string
	FileContext    string
	Summary        string
}

// BuildPrompt wraps message in the chat persona with the gathered context;
// codeRequest adds the file-format instructions
func BuildPrompt(message string, pc PromptContext, codeRequest bool) string {
	project := pc.ProjectContext
	if !strings.HasPrefix(project, strings.TrimSpace(projectAnalysisPrefix)) {
		project = projectAnalysisPrefix + project
	}

	contextInfo := project + "\n" + pc.FileContext + pc.Summary
	enhanced := contextInfo + "\n\n=== USER REQUEST ===\n" + message

	task := ""
	if codeRequest {
		task = template.CodeTask
	}

	return template.Render(template.Chat, map[string]string{
		"task":    task,
		"context": enhanced,
	})
}
