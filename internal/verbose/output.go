// Package verbose prints the effective generation parameters for --verbose.
package verbose

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/chriscorrea/astrelium/internal/config"

	"github.com/fatih/color"
)

// OutputConfig contains parameters for verbose output formatting
type OutputConfig struct {
	Writer       io.Writer
	KeyColor     *color.Color
	ValueColor   *color.Color
	EnableColors bool
}

// DefaultOutputConfig returns a default configuration for verbose output
func DefaultOutputConfig(writer io.Writer) *OutputConfig {
	return &OutputConfig{
		Writer:       writer,
		KeyColor:     color.New(color.FgCyan, color.Bold),
		ValueColor:   color.New(color.FgMagenta),
		EnableColors: true,
	}
}

type param struct {
	Key   string
	Value string
}

// PrintParameters displays the model parameters and session settings in
// a two-pair-per-row table
func PrintParameters(cfg *config.Config, providerName, workspace string, outputCfg *OutputConfig) {
	if outputCfg == nil {
		outputCfg = DefaultOutputConfig(os.Stderr)
	}

	w := tabwriter.NewWriter(outputCfg.Writer, 0, 0, 3, ' ', 0)

	params := []param{
		{Key: "Provider", Value: providerName},
		{Key: "Model", Value: cfg.Model.Name},
		{Key: "Temperature", Value: fmt.Sprintf("%.2f", cfg.Model.Temperature)},
		{Key: "Top P", Value: fmt.Sprintf("%.2f", cfg.Model.TopP)},
		{Key: "Max Output Tokens", Value: strconv.Itoa(cfg.Model.MaxTokens)},
		{Key: "Context Size", Value: strconv.Itoa(cfg.Model.ContextSize)},
		{Key: "Endpoint", Value: cfg.Ollama.BaseURL},
		{Key: "Workspace", Value: workspace},
	}

	if cfg.Model.Seed != nil {
		params = append(params, param{Key: "Seed", Value: strconv.Itoa(*cfg.Model.Seed)})
	}
	if !cfg.Commands.Enabled {
		params = append(params, param{Key: "Commands", Value: "disabled"})
	}

	for i := 0; i < len(params); i += 2 {
		p1 := params[i]
		if i+1 < len(params) {
			p2 := params[i+1]
			printRow(w, outputCfg, p1.Key, p1.Value, p2.Key, p2.Value)
		} else {
			printRow(w, outputCfg, p1.Key, p1.Value, "", "")
		}
	}

	if len(cfg.Model.StopSequences) > 0 {
		quoted := make([]string, len(cfg.Model.StopSequences))
		for i, s := range cfg.Model.StopSequences {
			quoted[i] = strconv.Quote(s)
		}
		printRow(w, outputCfg, "Stop", strings.Join(quoted, ", "), "", "")
	}

	fmt.Fprintf(w, "\n")
	w.Flush()
}

// printRow prints a multi-column row for one or two key-value pairs
func printRow(w io.Writer, outputCfg *OutputConfig, key1, value1, key2, value2 string) {
	keySprint := outputCfg.KeyColor.SprintFunc()
	valueSprint := outputCfg.ValueColor.SprintFunc()

	if !outputCfg.EnableColors {
		keySprint = fmt.Sprint
		valueSprint = fmt.Sprint
	}

	if key2 != "" {
		fmt.Fprintf(w, "%s:\t%s\t%s:\t%s\n",
			keySprint(key1),
			valueSprint(value1),
			keySprint(key2),
			valueSprint(value2),
		)
	} else {
		fmt.Fprintf(w, "%s:\t%s\n",
			keySprint(key1),
			valueSprint(value1),
		)
	}
}
