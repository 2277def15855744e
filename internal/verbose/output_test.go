package verbose

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chriscorrea/astrelium/internal/config"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Config {
	return &config.Config{
		Model: config.Model{
			Name:          "gpt-oss:20b",
			Temperature:   0.2,
			TopP:          0.8,
			MaxTokens:     512,
			ContextSize:   2048,
			StopSequences: []string{"User:", "\n\n\n"},
		},
		Ollama:   config.Ollama{BaseURL: "http://localhost:11434"},
		Commands: config.Commands{Enabled: true},
	}
}

func TestPrintParameters(t *testing.T) {
	cfg := testConfig()

	t.Run("DefaultOutput", func(t *testing.T) {
		var buf bytes.Buffer
		PrintParameters(cfg, "ollama", "/work/demo", DefaultOutputConfig(&buf))

		output := buf.String()
		for _, expected := range []string{
			"Provider", "ollama",
			"Model", "gpt-oss:20b",
			"Temperature", "0.20",
			"Top P", "0.80",
			"Max Output Tokens", "512",
			"Context Size", "2048",
			"Endpoint", "http://localhost:11434",
			"Workspace", "/work/demo",
		} {
			assert.Contains(t, output, expected)
		}
	})

	t.Run("WithoutColors", func(t *testing.T) {
		var buf bytes.Buffer
		outputCfg := DefaultOutputConfig(&buf)
		outputCfg.EnableColors = false

		PrintParameters(cfg, "mock", ".", outputCfg)

		output := buf.String()
		assert.NotContains(t, output, "\x1b[")
		assert.Contains(t, output, "Provider:")
		assert.Contains(t, output, "Stop:")
		assert.Contains(t, output, `"User:", "\n\n\n"`)
		assert.NotContains(t, output, "Seed")
		assert.NotContains(t, output, "Commands")
	})

	t.Run("SeedAndDisabledCommands", func(t *testing.T) {
		seeded := testConfig()
		seed := 42
		seeded.Model.Seed = &seed
		seeded.Commands.Enabled = false

		var buf bytes.Buffer
		outputCfg := DefaultOutputConfig(&buf)
		outputCfg.EnableColors = false
		PrintParameters(seeded, "ollama", ".", outputCfg)

		output := buf.String()
		assert.Contains(t, output, "Seed:")
		assert.Contains(t, output, "42")
		assert.Contains(t, output, "disabled")
	})
}

func TestPrintRow(t *testing.T) {
	var buf bytes.Buffer
	outputCfg := &OutputConfig{
		Writer:       &buf,
		KeyColor:     color.New(color.FgCyan),
		ValueColor:   color.New(color.FgMagenta),
		EnableColors: false,
	}

	printRow(&buf, outputCfg, "Key1", "Value1", "Key2", "Value2")
	printRow(&buf, outputCfg, "Solo", "Value", "", "")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "Key1:\tValue1\tKey2:\tValue2", lines[0])
	assert.Equal(t, "Solo:\tValue", lines[1])
}
