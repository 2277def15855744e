// Package app runs chat turns: classification, prompting, materialization,
// command execution and debug-assist, reported through a Sink.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chriscorrea/astrelium/internal/assist"
	"github.com/chriscorrea/astrelium/internal/classify"
	"github.com/chriscorrea/astrelium/internal/config"
	"github.com/chriscorrea/astrelium/internal/editor"
	"github.com/chriscorrea/astrelium/internal/extract"
	"github.com/chriscorrea/astrelium/internal/history"
	"github.com/chriscorrea/astrelium/internal/llm/common"
	"github.com/chriscorrea/astrelium/internal/llm/ollama"
	"github.com/chriscorrea/astrelium/internal/logger"
	"github.com/chriscorrea/astrelium/internal/materialize"
	"github.com/chriscorrea/astrelium/internal/runner"
	"github.com/chriscorrea/astrelium/internal/workspace"
)

// fixed status lines shown during a turn
const (
	ThinkingText   = "Analyzing your request..."
	NoResponseText = "No response received"
	DebugProgress  = "Analyzing errors and attempting to fix..."
	BuildingText   = "Running build commands..."
)

// ErrEmptyMessage is returned for blank input
var ErrEmptyMessage = errors.New("empty message")

// Options wires a Session; Config, LLM and Sink are required
type Options struct {
	Config      *config.Config
	Logger      *slog.Logger
	LLM         common.LLM
	Provider    string
	Model       string
	ChatOptions []interface{}

	Root     string        // workspace root; empty means no workspace
	Editor   editor.Editor // may be nil
	Store    history.Store // nil keeps history in memory
	Executor runner.Executor
	Approver runner.Approver
	Sink     Sink

	// Spinner receives the generating animation; nil disables it
	Spinner io.Writer
}

// Session holds everything that outlives a single turn
type Session struct {
	cfg      *config.Config
	logger   *slog.Logger
	llm      common.LLM
	provider string
	model    string

	chatOptions     []interface{}
	advancedOptions []interface{}

	root         string
	editor       editor.Editor
	history      *history.Log
	materializer *materialize.Materializer
	runner       *runner.Runner
	assistant    *assist.Assistant
	analyzer     *workspace.Analyzer
	sink         Sink
	spinner      io.Writer

	mu       sync.RWMutex
	snapshot *workspace.Snapshot
}

// Outcome describes what a turn did
type Outcome struct {
	Reply       string
	CodeRequest bool
	Advanced    string // name of the advanced command that handled the turn
	Extraction  extract.Result
	Report      materialize.Report
	Backup      string // set when the active file was replaced
	Stages      []runner.StageResult
	Suggestion  string
	Err         error // model or debug request failure, already reported as an event
}

// CommandsFailed reports whether any stage failed
func (o *Outcome) CommandsFailed() bool {
	for _, s := range o.Stages {
		if s.Failed() {
			return true
		}
	}
	return false
}

// New builds a session, restores history and analyzes the workspace.
// The analysis is rebuilt whenever the editor reports a new active file.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("session requires a configuration")
	}
	if opts.LLM == nil {
		return nil, fmt.Errorf("session requires a language model client")
	}
	if opts.Sink == nil {
		return nil, fmt.Errorf("session requires an event sink")
	}

	cfg := opts.Config
	model := opts.Model
	if model == "" {
		model = cfg.Model.Name
	}

	s := &Session{
		cfg:             cfg,
		logger:          logger.OrDiscard(opts.Logger),
		llm:             opts.LLM,
		provider:        opts.Provider,
		model:           model,
		chatOptions:     opts.ChatOptions,
		advancedOptions: overrideOptions(opts.ChatOptions, cfg.Advanced.Temperature, cfg.Advanced.MaxTokens),
		root:            opts.Root,
		editor:          opts.Editor,
		sink:            opts.Sink,
		spinner:         opts.Spinner,
	}

	s.history = history.NewLog(cfg.History.MaxEntries, opts.Store, opts.Logger)
	if err := s.history.Restore(); err != nil {
		// a corrupt history file should not block the assistant
		s.warn("Failed to restore chat history", "error", err)
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	m, err := materialize.New(root, opts.Editor, opts.Logger)
	if err != nil {
		return nil, err
	}
	m.BackupSuffix = cfg.Materialize.BackupSuffix
	m.OpenFirst = cfg.Materialize.OpenFirst
	s.materializer = m

	r := runner.New(m.Root, opts.Logger)
	if opts.Executor != nil {
		r.Executor = opts.Executor
	}
	if len(cfg.Commands.AllowList) > 0 {
		r.Policy = runner.NewPolicy(cfg.Commands.AllowList)
	}
	r.Timeout = time.Duration(cfg.Commands.Timeout) * time.Second
	r.Disabled = !cfg.Commands.Enabled
	if cfg.Commands.Confirm {
		r.Approver = opts.Approver
	}
	s.runner = r

	s.assistant = assist.New(opts.LLM, model,
		overrideOptions(opts.ChatOptions, cfg.DebugAssist.Temperature, cfg.DebugAssist.MaxTokens),
		opts.Logger)

	if opts.Root != "" {
		s.analyzer = workspace.NewAnalyzer(m.Root, opts.Logger)
	}
	s.RefreshWorkspaceAnalysis(ctx)

	// opening a file or switching away from one rebuilds the analysis
	if n, ok := opts.Editor.(editor.Notifier); ok {
		n.OnChange(func(path string) {
			s.debug("Active file changed, refreshing analysis", "path", path)
			s.RefreshWorkspaceAnalysis(ctx)
		})
	}

	return s, nil
}

// RefreshWorkspaceAnalysis rebuilds the snapshot from disk
func (s *Session) RefreshWorkspaceAnalysis(ctx context.Context) *workspace.Snapshot {
	var snap *workspace.Snapshot
	if s.analyzer != nil {
		snap = s.analyzer.Analyze(ctx)
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
	return snap
}

// Snapshot returns the latest workspace analysis, nil without a workspace
func (s *Session) Snapshot() *workspace.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Watch refreshes the analysis whenever the project layout changes, until ctx ends
func (s *Session) Watch(ctx context.Context) (*workspace.Watcher, error) {
	if s.analyzer == nil {
		return nil, fmt.Errorf("no workspace to watch")
	}

	w, err := workspace.NewWatcher(s.analyzer.Root, s.logger, func(path string) {
		s.debug("Workspace changed, refreshing analysis", "path", path)
		s.RefreshWorkspaceAnalysis(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch workspace: %w", err)
	}
	return w, nil
}

func (s *Session) History() []history.ChatMessage {
	return s.history.Messages()
}

func (s *Session) ClearHistory() {
	s.history.Clear()
}

// ImportHistory appends messages parsed from a transcript
func (s *Session) ImportHistory(msgs []history.ChatMessage) {
	s.history.Import(msgs)
}

// Model is the model name used for every request
func (s *Session) Model() string {
	return s.model
}

// HandleMessage runs one turn; only sink failures are returned
func (s *Session) HandleMessage(ctx context.Context, text string) error {
	_, err := s.Turn(ctx, text)
	if errors.Is(err, ErrEmptyMessage) {
		return nil
	}
	return err
}

// Turn runs one chat turn and reports what happened. Model, file and
// command failures are emitted as events and recorded in the Outcome;
// the returned error is a sink failure or ErrEmptyMessage.
func (s *Session) Turn(ctx context.Context, text string) (*Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	t := &turn{sink: s.sink}
	out := &Outcome{}

	s.history.Add(history.RoleUser, text)

	if s.cfg.Advanced.Enabled {
		if cmd, ok := matchAdvanced(text); ok {
			out.Advanced = cmd.Name
			s.runAdvanced(ctx, t, cmd, text, out)
			return out, t.err
		}
	}

	t.emit(Event{Kind: EventThinking, Text: ThinkingText})
	if t.aborted() {
		return out, t.err
	}

	class := classify.Classify(text)
	out.CodeRequest = class.CodeRequest
	s.debug("Classified message", "code_request", class.CodeRequest, "table", class.Table, "match", class.Match)

	prompt := BuildPrompt(text, s.promptContext(), class.CodeRequest)

	reply, err := s.generate(ctx, prompt, s.chatOptions)
	if err != nil {
		msg := modelErrorText(err)
		s.history.Add(history.RoleSystem, msg)
		t.emit(Event{Kind: EventError, Text: msg})
		out.Err = err
		return out, t.err
	}
	if strings.TrimSpace(reply) == "" {
		reply = NoResponseText
	}
	out.Reply = reply
	s.history.Add(history.RoleAssistant, reply)

	if !class.CodeRequest {
		t.emit(Event{Kind: EventResponse, Text: reply})
		return out, t.err
	}

	s.processCode(ctx, t, reply, out)
	return out, t.err
}

// generate calls the model with the spinner running
func (s *Session) generate(ctx context.Context, prompt string, options []interface{}) (string, error) {
	stop := startSpinner(ctx, s.spinner, s.provider, s.model)
	defer stop()

	s.debug("Sending prompt", "model", s.model, "length", len(prompt))
	return s.llm.Generate(ctx, prompt, s.model, options...)
}

func (s *Session) promptContext() PromptContext {
	snap := s.Snapshot()
	return PromptContext{
		ProjectContext: snap.ProjectContext(),
		FileContext:    s.fileContext(),
		Summary:        snap.Summary(),
	}
}

func (s *Session) fileContext() string {
	active := s.activeFile()
	if active == "" {
		return workspace.NoFileContext
	}
	content, err := s.editor.Content()
	if err != nil {
		s.warn("Failed to read active file", "path", active, "error", err)
		return workspace.NoFileContext
	}
	return workspace.CurrentFileContext(active, content, editor.LanguageID(active))
}

func (s *Session) activeFile() string {
	if s.editor == nil {
		return ""
	}
	return s.editor.ActiveFile()
}

// modelErrorText adds the Ollama hint unless the provider already gave it
func modelErrorText(err error) string {
	if strings.Contains(strings.ToLower(err.Error()), "ollama is running") {
		return fmt.Sprintf("Error: %v", err)
	}
	return fmt.Sprintf("Error: %v. Make sure Ollama is running!", err)
}

func (s *Session) debug(msg string, args ...any) {
	s.logger.Debug(msg, args...)
}

func (s *Session) warn(msg string, args ...any) {
	s.logger.Warn(msg, args...)
}

// turn keeps the first sink failure; later events are dropped
type turn struct {
	sink Sink
	err  error
}

func (t *turn) emit(e Event) {
	if t.err != nil {
		return
	}
	t.err = t.sink.Emit(e)
}

func (t *turn) aborted() bool {
	return t.err != nil
}

// overrideOptions swaps temperature and num_predict in the provider options
func overrideOptions(options []interface{}, temperature float64, maxTokens int) []interface{} {
	out := make([]interface{}, len(options))
	for i, opt := range options {
		if o, ok := opt.(*ollama.GenerateOptions); ok {
			out[i] = o.Override(temperature, maxTokens)
			continue
		}
		out[i] = opt
	}
	return out
}
