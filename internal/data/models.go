// Package data holds the catalog of suggested Ollama models shown by init.
package data

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed configs/*.json
var configFS embed.FS

// ModelInfo describes one suggested model
type ModelInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Size        string `json:"size,omitempty"`
	Recommended bool   `json:"recommended,omitempty"`
}

// ModelsData represents the structure of models.json
type ModelsData struct {
	Models []ModelInfo `json:"models"`
}

// ModelCatalog handles loading and accessing the suggested models
type ModelCatalog struct {
	data *ModelsData
}

// NewModelCatalog creates a new catalog instance
func NewModelCatalog() *ModelCatalog {
	return &ModelCatalog{}
}

// Load reads models.json; a file next to the executable or in the working
// directory wins over the embedded copy
func (c *ModelCatalog) Load() error {
	data, err := loadModelsData()
	if err != nil {
		return err
	}
	c.data = data
	return nil
}

// Models returns the catalog in file order
func (c *ModelCatalog) Models() []ModelInfo {
	if c.data == nil {
		return nil
	}
	return c.data.Models
}

// Get returns a model by name
func (c *ModelCatalog) Get(name string) (ModelInfo, bool) {
	for _, m := range c.Models() {
		if m.Name == name {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// Default returns the first recommended model, or the first model
func (c *ModelCatalog) Default() string {
	models := c.Models()
	for _, m := range models {
		if m.Recommended {
			return m.Name
		}
	}
	if len(models) > 0 {
		return models[0].Name
	}
	return ""
}

// Options returns formatted options for survey selection
func (c *ModelCatalog) Options() []string {
	var options []string
	for _, m := range c.Models() {
		options = append(options, formatOption(m))
	}
	return options
}

// NameFromOption extracts the model name from a formatted option string
func (c *ModelCatalog) NameFromOption(option string) string {
	for _, m := range c.Models() {
		if option == formatOption(m) {
			return m.Name
		}
	}
	return ""
}

func formatOption(m ModelInfo) string {
	option := fmt.Sprintf("%s - %s", m.Name, m.Description)
	if m.Size != "" {
		option += fmt.Sprintf(" (%s)", m.Size)
	}
	return option
}

// loadModelsData loads models.json from disk overrides or the embedded copy
func loadModelsData() (*ModelsData, error) {
	var possiblePaths []string
	if execPath, err := os.Executable(); err == nil {
		possiblePaths = append(possiblePaths, filepath.Join(filepath.Dir(execPath), "configs", "models.json"))
	}
	possiblePaths = append(possiblePaths, filepath.Join("configs", "models.json"))

	for _, path := range possiblePaths {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return parseModels(content, path)
	}

	content, err := configFS.ReadFile("configs/models.json")
	if err != nil {
		return nil, fmt.Errorf("models.json not found in embedded assets or any of these locations: %s", strings.Join(possiblePaths, ", "))
	}
	return parseModels(content, "embedded models.json")
}

func parseModels(content []byte, source string) (*ModelsData, error) {
	var data ModelsData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	return &data, nil
}
