package config

// Config represents the complete configuration structure for astrelium
type Config struct {
	Model       Model       `mapstructure:"model"`
	Ollama      Ollama      `mapstructure:"ollama"`
	DebugAssist DebugAssist `mapstructure:"debug_assist"`
	Advanced    Advanced    `mapstructure:"advanced"`
	Commands    Commands    `mapstructure:"commands"`
	Materialize Materialize `mapstructure:"materialize"`
	History     History     `mapstructure:"history"`
	Workspace   Workspace   `mapstructure:"workspace"`
	Render      Render      `mapstructure:"render"`
}

// Model contains the model name and the generation parameters for chat turns
type Model struct {
	Name          string   `mapstructure:"name"`
	Temperature   float64  `mapstructure:"temperature"`
	TopP          float64  `mapstructure:"top_p"`
	MaxTokens     int      `mapstructure:"max_tokens"`   // sent as num_predict
	ContextSize   int      `mapstructure:"context_size"` // sent as num_ctx
	StopSequences []string `mapstructure:"stop_sequences"`
	Seed          *int     `mapstructure:"seed"`
}

// Ollama holds the endpoint settings
type Ollama struct {
	BaseURL    string `mapstructure:"base_url"`
	Timeout    int    `mapstructure:"timeout"` // seconds, 0 = wait forever
	MaxRetries int    `mapstructure:"max_retries"`
}

// DebugAssist configures the follow-up request sent after a failed compile
type DebugAssist struct {
	Enabled     bool    `mapstructure:"enabled"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// Advanced configures the canned review/refactor/docs commands
type Advanced struct {
	Enabled     bool    `mapstructure:"enabled"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// Commands is the execution policy for COMPILE/RUN/TEST directives
type Commands struct {
	Enabled   bool     `mapstructure:"enabled"`
	Confirm   bool     `mapstructure:"confirm"`
	Timeout   int      `mapstructure:"timeout"` // seconds per stage, 0 = none
	AllowList []string `mapstructure:"allow_list"`
}

// Materialize controls how extracted files reach the disk
type Materialize struct {
	BackupSuffix string `mapstructure:"backup_suffix"`
	OpenFirst    bool   `mapstructure:"open_first"`
}

// History configures chat history persistence
type History struct {
	Path       string `mapstructure:"path"`
	MaxEntries int    `mapstructure:"max_entries"`
}

// Workspace configures analysis of the project the assistant works in
type Workspace struct {
	Root  string `mapstructure:"root"`
	Watch bool   `mapstructure:"watch"`
}

// Render contains terminal output options
type Render struct {
	Markdown bool   `mapstructure:"markdown"`
	Style    string `mapstructure:"style"` // chroma style for code
	Width    int    `mapstructure:"width"`
}
