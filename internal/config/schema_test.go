package config

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveKey(t *testing.T) {
	schema := DefaultConfigSchema()

	tests := []struct {
		name             string
		key              string
		expectedPath     string
		expectError      bool
		errorContainsAny []string
	}{
		{
			name:         "temp alias resolves to canonical path",
			key:          "temp",
			expectedPath: "model.temperature",
		},
		{
			name:         "canonical path resolves to itself",
			key:          "model.temperature",
			expectedPath: "model.temperature",
		},
		{
			name:         "model alias points at the model name",
			key:          "model",
			expectedPath: "model.name",
		},
		{
			name:         "num-ctx alias",
			key:          "num-ctx",
			expectedPath: "model.context_size",
		},
		{
			name:         "ollama-url alias",
			key:          "ollama-url",
			expectedPath: "ollama.base_url",
		},
		{
			name:             "invalid key returns error",
			key:              "nonexistent.key",
			expectError:      true,
			errorContainsAny: []string{"invalid config key", "nonexistent.key"},
		},
		{
			name:             "aliases are case sensitive",
			key:              "Temp",
			expectError:      true,
			errorContainsAny: []string{"invalid config key", "Temp"},
		},
		{
			name:             "empty key",
			key:              "",
			expectError:      true,
			errorContainsAny: []string{"invalid config key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolvedPath, err := schema.ResolveKey(tt.key)

			if tt.expectError {
				assert.Error(t, err)
				for _, expectedSubstring := range tt.errorContainsAny {
					assert.Contains(t, err.Error(), expectedSubstring)
				}
				assert.Empty(t, resolvedPath)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedPath, resolvedPath)
		})
	}
}

func TestValidateValue(t *testing.T) {
	schema := DefaultConfigSchema()

	tests := []struct {
		name             string
		path             string
		value            interface{}
		expectError      bool
		errorContainsAny []string
	}{
		{
			name:  "valid temperature",
			path:  "model.temperature",
			value: 0.577,
		},
		{
			name:             "temperature as string",
			path:             "model.temperature",
			value:            "0.577",
			expectError:      true,
			errorContainsAny: []string{"expected float64", "got string"},
		},
		{
			name:             "temperature too high",
			path:             "model.temperature",
			value:            3.14,
			expectError:      true,
			errorContainsAny: []string{"value must be between", "0.00", "2.00"},
		},
		{
			name:  "top_p edge value",
			path:  "model.top_p",
			value: 1.0,
		},
		{
			name:             "max_tokens as float",
			path:             "model.max_tokens",
			value:            4096.0,
			expectError:      true,
			errorContainsAny: []string{"expected int", "got float64"},
		},
		{
			name:             "max_tokens too low",
			path:             "model.max_tokens",
			value:            0,
			expectError:      true,
			errorContainsAny: []string{"value must be between", "1", "100000"},
		},
		{
			name:  "zero timeout means none",
			path:  "ollama.timeout",
			value: 0,
		},
		{
			name:             "retries capped at five",
			path:             "ollama.max_retries",
			value:            6,
			expectError:      true,
			errorContainsAny: []string{"between 0 and 5"},
		},
		{
			name:  "valid base url",
			path:  "ollama.base_url",
			value: "http://127.0.0.1:11434",
		},
		{
			name:             "base url without scheme",
			path:             "ollama.base_url",
			value:            "localhost:11434",
			expectError:      true,
			errorContainsAny: []string{"http://"},
		},
		{
			name:  "bool toggle",
			path:  "commands.confirm",
			value: true,
		},
		{
			name:             "unknown config path",
			path:             "unknown.path",
			value:            "any value",
			expectError:      true,
			errorContainsAny: []string{"unknown config path", "unknown.path"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.ValidateValue(tt.path, tt.value)

			if tt.expectError {
				assert.Error(t, err)
				for _, expectedSubstring := range tt.errorContainsAny {
					assert.Contains(t, err.Error(), expectedSubstring)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetFieldInfo(t *testing.T) {
	schema := DefaultConfigSchema()

	info, err := schema.GetFieldInfo("model.context_size")
	assert.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(int(0)), info.Type)
	assert.Equal(t, 2048, info.Default)
	assert.NotNil(t, info.Validation)

	info, err = schema.GetFieldInfo("model.name")
	assert.NoError(t, err)
	assert.Equal(t, "gpt-oss:20b", info.Default)
	assert.Nil(t, info.Validation)

	_, err = schema.GetFieldInfo("nonexistent.path")
	assert.ErrorContains(t, err, "unknown config path")
}

func TestFindSimilarKeys(t *testing.T) {
	schema := DefaultConfigSchema()

	suggestions := schema.FindSimilarKeys("token")
	assert.LessOrEqual(t, len(suggestions), 5)
	assert.Contains(t, suggestions, "model.max_tokens")

	suggestions = schema.FindSimilarKeys("temp")
	assert.Contains(t, suggestions, "model.temperature")
}

// every alias and default must agree with the schema itself
func TestSchemaConsistency(t *testing.T) {
	schema := DefaultConfigSchema()

	t.Run("aliases point to valid paths", func(t *testing.T) {
		for alias, canonicalPath := range schema.Aliases {
			_, exists := schema.ValidPaths[canonicalPath]
			assert.True(t, exists, "Alias %q points to non-existent path %q", alias, canonicalPath)
		}
	})

	t.Run("field infos have types and descriptions", func(t *testing.T) {
		for path, fieldInfo := range schema.ValidPaths {
			assert.NotNil(t, fieldInfo.Type, "Field %q has nil type", path)
			assert.NotEmpty(t, fieldInfo.Description, "Field %q has empty description", path)
		}
	})

	t.Run("validated fields state their rule", func(t *testing.T) {
		for path, fieldInfo := range schema.ValidPaths {
			assert.Equal(t, fieldInfo.Validation != nil, fieldInfo.Rule != "", "Field %q rule %q", path, fieldInfo.Rule)
		}
	})

	t.Run("defaults pass their own validation", func(t *testing.T) {
		for path, fieldInfo := range schema.ValidPaths {
			assert.NoError(t, schema.ValidateValue(path, fieldInfo.Default), "default for %q", path)
		}
	})
}
