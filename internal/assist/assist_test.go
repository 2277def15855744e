package assist

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLLM is a testify mock of common.LLM
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Generate(ctx context.Context, prompt string, modelName string, options ...interface{}) (string, error) {
	args := m.Called(ctx, prompt, modelName, options)
	return args.String(0), args.Error(1)
}

func TestPrompt(t *testing.T) {
	a := New(nil, "gpt-oss:20b", nil, nil)

	prompt := a.Prompt("main.c:3: error: expected ';'")

	assert.Contains(t, prompt, "You are a debugging expert.")
	assert.Contains(t, prompt, "Error: main.c:3: error: expected ';'")
	assert.NotContains(t, prompt, "{error}")
}

func TestPrompt_CustomTemplate(t *testing.T) {
	a := New(nil, "m", nil, nil)
	a.Template = "fix: {error}"

	assert.Equal(t, "fix: boom", a.Prompt("boom"))
}

func TestSuggest(t *testing.T) {
	opts := []interface{}{"debug-options"}

	tests := []struct {
		name      string
		reply     string
		err       error
		expected  string
		expectErr bool
	}{
		{
			name:     "reply returned verbatim",
			reply:    "Add a semicolon on line 3.\n```c\nint x = 1;\n```",
			expected: "Add a semicolon on line 3.\n```c\nint x = 1;\n```",
		},
		{
			name:     "empty reply",
			reply:    "  \n",
			expected: NoSuggestion,
		},
		{
			name:      "request failure",
			err:       errors.New("connection refused"),
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := new(MockLLM)
			llm.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
				return strings.Contains(p, "Error: undefined: foo")
			}), "gpt-oss:20b", opts).Return(tt.reply, tt.err).Once()

			a := New(llm, "gpt-oss:20b", opts, nil)
			got, err := a.Suggest(context.Background(), "undefined: foo")

			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "debug analysis failed")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
			llm.AssertExpectations(t)
		})
	}
}

func TestSuggest_NoLLM(t *testing.T) {
	_, err := New(nil, "m", nil, nil).Suggest(context.Background(), "x")
	assert.Error(t, err)
}
