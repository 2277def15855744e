package app

import (
	"testing"

	"github.com/chriscorrea/astrelium/internal/template"
	"github.com/chriscorrea/astrelium/internal/workspace"
	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name        string
		context     PromptContext
		codeRequest bool
		contains    []string
		excludes    []string
	}{
		{
			name: "chat without workspace",
			context: PromptContext{
				ProjectContext: workspace.NoWorkspace,
				FileContext:    workspace.NoFileContext,
			},
			contains: []string{
				"You are Astrelium",
				"Context: PROJECT ANALYSIS: No workspace folder open\n",
				"=== NO FILE OPEN ===",
				"\n\n=== USER REQUEST ===\nhello",
			},
			excludes: []string{template.CodeTask, "{task}", "{context}"},
		},
		{
			name: "code request with analysis",
			context: PromptContext{
				ProjectContext: "PROJECT ANALYSIS:\nType: Python\n",
				FileContext:    "\n\n=== CURRENT FILE ===\nFile: app.py\n",
				Summary:        "\n\n=== WORKSPACE SUMMARY ===\nProject Type: Python\n",
			},
			codeRequest: true,
			contains: []string{
				template.CodeTask,
				"Context: PROJECT ANALYSIS:\nType: Python\n\n\n\n=== CURRENT FILE ===",
				"=== WORKSPACE SUMMARY ===\nProject Type: Python\n\n\n=== USER REQUEST ===\nhello",
			},
			excludes: []string{"PROJECT ANALYSIS: PROJECT ANALYSIS"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildPrompt("hello", tt.context, tt.codeRequest)
			for _, c := range tt.contains {
				assert.Contains(t, prompt, c)
			}
			for _, e := range tt.excludes {
				assert.NotContains(t, prompt, e)
			}
		})
	}
}
