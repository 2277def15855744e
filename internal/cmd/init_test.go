package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/chriscorrea/astrelium/internal/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAsk replaces askOne for the duration of a test
func stubAsk(t *testing.T, fn func(survey.Prompt, interface{}) error) {
	t.Helper()
	original := askOne
	askOne = fn
	t.Cleanup(func() { askOne = original })
}

// initAnswers returns a mocked survey that answers each question by prompt type
func initAnswers(url, modelOption, typedModel string, confirm bool, allow []string) func(survey.Prompt, interface{}) error {
	return func(prompt survey.Prompt, response interface{}) error {
		switch p := prompt.(type) {
		case *survey.Input:
			if strings.Contains(p.Message, "Ollama server URL") {
				*response.(*string) = url
			} else {
				*response.(*string) = typedModel
			}
		case *survey.Select:
			*response.(*string) = modelOption
		case *survey.Confirm:
			if strings.Contains(p.Message, "compile fails") {
				*response.(*bool) = false
			} else {
				*response.(*bool) = confirm
			}
		case *survey.MultiSelect:
			*response.(*[]string) = allow
		}
		return nil
	}
}

func TestInitCommand(t *testing.T) {
	_, configPath := withTestState(t)

	stubAsk(t, initAnswers("http://gpu-box:11434/", "qwen2.5-coder:7b - Code-focused, fast on laptops (4.7GB)", "", true, []string{"go", "make"}))

	var out bytes.Buffer
	require.NoError(t, runInit(&out))

	_, err := os.Stat(configPath)
	require.NoError(t, err, "config file was not written")
	assert.Contains(t, out.String(), "ollama pull qwen2.5-coder:7b")

	fresh := config.NewManager()
	require.NoError(t, fresh.Load(configPath))
	cfg := fresh.Config()

	assert.Equal(t, "http://gpu-box:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "qwen2.5-coder:7b", cfg.Model.Name)
	assert.False(t, cfg.DebugAssist.Enabled)
	assert.True(t, cfg.Commands.Confirm)
	assert.Equal(t, []string{"go", "make"}, cfg.Commands.AllowList)
}

func TestInitCommand_OtherModel(t *testing.T) {
	_, configPath := withTestState(t)

	stubAsk(t, initAnswers("http://localhost:11434", otherModelOption, " mistral:7b ", false, []string{"python3"}))

	require.NoError(t, runInit(&bytes.Buffer{}))

	fresh := config.NewManager()
	require.NoError(t, fresh.Load(configPath))
	assert.Equal(t, "mistral:7b", fresh.Config().Model.Name)
}

func TestInitCommand_InvalidAnswers(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		typedModel    string
		errorContains string
	}{
		{name: "bad url", url: "localhost:11434", typedModel: "x", errorContains: "must start with http"},
		{name: "empty model", url: "http://localhost:11434", typedModel: "  ", errorContains: "model name cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withTestState(t)
			stubAsk(t, initAnswers(tt.url, otherModelOption, tt.typedModel, false, nil))

			err := runInit(&bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestInitCommand_SurveyError(t *testing.T) {
	withTestState(t)
	stubAsk(t, func(survey.Prompt, interface{}) error {
		return fmt.Errorf("survey failed")
	})

	err := runInit(&bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "survey error")
}

func TestAllowListOptions(t *testing.T) {
	options := allowListOptions([]string{"go", "deno"})

	assert.Contains(t, options, "deno")
	assert.Equal(t, "deno", options[len(options)-1])

	count := 0
	for _, o := range options {
		if o == "go" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
