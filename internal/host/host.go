// Package host implements the hostline session lifecycle: it resolves the
// session configuration, assembles the module/generator pipeline over the
// editing core, and drives the edit, expand, redo, commit loop until a
// final input line is produced.
package host

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"hostline/internal/config"
	"hostline/internal/editor"
	"hostline/internal/history"
	"hostline/internal/logger"
	promptfilter "hostline/internal/prompt"
	"hostline/internal/script"
	"hostline/pkg/shelltypes"
)

// reservedCommand is the command name whose invocations may be excluded
// from history by the history.record_history_cmd setting.
const reservedCommand = "history"

// maxExpansionRetries bounds the expansion-review cycle. A history log
// whose entries keep expanding into further references is pathological;
// exceeding the cap is reported instead of looping forever.
const maxExpansionRetries = 32

// BuildContext carries everything the pipeline builder needs to assemble an
// editor for one session.
type BuildContext struct {
	Prompt  string
	Config  shelltypes.SessionConfig
	History []string
	Engine  *script.Engine
}

// Options configures a Host.
type Options struct {
	// SettingsPath locates the settings file. Empty means defaults only.
	SettingsPath string
	// HistoryPath locates the history backing file.
	HistoryPath string
	// Stdin, Stdout and Stderr are the terminal streams handed to the
	// editing core. Nil values default to the process streams.
	Stdin  io.ReadCloser
	Stdout io.Writer
	Stderr io.Writer
	// BuildEditor overrides pipeline construction. Used by tests to
	// substitute a scripted editing core.
	BuildEditor func(BuildContext) (shelltypes.LineEditor, error)
}

// Host runs line-editing sessions for a named application.
type Host struct {
	name      string
	sessionID string
	opts      Options
	logger    *log.Logger
}

// New creates a session host for the named application.
func New(name string, opts Options) *Host {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Host{
		name:      name,
		sessionID: uuid.NewString(),
		opts:      opts,
		logger:    logger.NewStyledLogger("Host"),
	}
}

// Name returns the application name this host serves.
func (h *Host) Name() string {
	return h.name
}

// SessionID returns the identity of this host's sessions in logs.
func (h *Host) SessionID() string {
	return h.sessionID
}

// EditLine runs one complete editing session: it resolves configuration,
// loads history and scripts, builds the pipeline and drives the edit loop
// with initial pre-loaded as the buffer. It returns the committed line and
// true on acceptance, or false when the user aborted.
//
// The working directory is captured at entry and restored on every exit
// path. History is reloaded immediately before a commit-time append and
// saved exactly once at session end, regardless of how many expansion
// retries occurred. A failure to persist history is reported after cleanup
// has run.
func (h *Host) EditLine(promptText, initial string) (result string, accepted bool, err error) {
	h.logger.Debug("Session starting", "session", h.sessionID, "app", h.name)

	if cwd, cwdErr := os.Getwd(); cwdErr == nil {
		defer func() {
			if restoreErr := os.Chdir(cwd); restoreErr != nil {
				h.logger.Error("Failed to restore working directory", "dir", cwd, "error", restoreErr)
			}
		}()
	} else {
		h.logger.Warn("Could not capture working directory", "error", cwdErr)
	}

	cfg := config.NewResolver(h.opts.SettingsPath).Resolve()

	hist := history.NewStore()
	if loadErr := hist.Load(h.opts.HistoryPath); loadErr != nil {
		h.logger.Warn("History unreadable, starting empty", "path", h.opts.HistoryPath, "error", loadErr)
	}

	var ed shelltypes.LineEditor
	defer func() {
		if ed != nil {
			if closeErr := ed.Close(); closeErr != nil {
				h.logger.Error("Editor teardown failed", "error", closeErr)
			}
		}
		if saveErr := hist.Save(h.opts.HistoryPath); saveErr != nil {
			h.logger.Error("Failed to save history", "path", h.opts.HistoryPath, "error", saveErr)
			if err == nil {
				err = fmt.Errorf("history save failed: %w", saveErr)
			}
		}
	}()

	engine := script.NewEngine()
	engine.LoadScripts(cfg.ScriptPaths)

	chain := promptfilter.NewFilterChain()
	for _, fn := range engine.PromptFuncs() {
		chain.Register(scriptPromptStep(fn))
	}
	filtered := chain.Filter(promptText)

	build := h.opts.BuildEditor
	if build == nil {
		build = h.buildPipeline
	}
	ed, err = build(BuildContext{
		Prompt:  filtered,
		Config:  cfg,
		History: hist.Entries(),
		Engine:  engine,
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to build editing pipeline: %w", err)
	}

	buffer := initial
	for attempt := 0; ; attempt++ {
		text, ok, editErr := ed.Edit(buffer)
		if editErr != nil {
			return "", false, editErr
		}
		if !ok {
			h.logger.Debug("Session aborted", "session", h.sessionID)
			return "", false, nil
		}

		res, expanded := hist.Expand(text)
		if res == shelltypes.ExpandedCommitable && cfg.VerifyExpansion {
			res = shelltypes.ExpandedNeedsReview
		}
		h.logger.Debug("Expansion checked", "session", h.sessionID, "result", res.String())

		if res == shelltypes.ExpandedNeedsReview {
			if attempt >= maxExpansionRetries {
				return "", false, fmt.Errorf("history expansion did not settle after %d attempts", maxExpansionRetries)
			}
			// Show the expansion instead of executing it; the loop restarts
			// with the expanded text as the new buffer.
			fmt.Fprintln(h.opts.Stdout, expanded)
			buffer = expanded
			continue
		}

		result = expanded
		accepted = true
		break
	}

	if !cfg.RecordHistoryCmd && invokesReservedCommand(result) {
		h.logger.Debug("Reserved command line not recorded", "session", h.sessionID)
		return result, accepted, nil
	}

	// Reload from disk so appends from concurrent sessions are merged
	// before this line is appended.
	if loadErr := hist.Load(h.opts.HistoryPath); loadErr != nil {
		h.logger.Warn("History reload before commit failed", "error", loadErr)
	}
	hist.Add(result)
	return result, accepted, nil
}

// buildPipeline is the default pipeline builder. Module order is fixed:
// completion UI first (owns candidate rendering), then the scroller, then
// the host-policy module; generators run scripts first with the filesystem
// matcher as fallback.
func (h *Host) buildPipeline(ctx BuildContext) (shelltypes.LineEditor, error) {
	ed, err := editor.New(editor.Desc{
		Prompt:      ctx.Prompt,
		CompareMode: ctx.Config.CompareMode,
		History:     ctx.History,
		Stdin:       h.opts.Stdin,
		Stdout:      h.opts.Stdout,
		Stderr:      h.opts.Stderr,
	})
	if err != nil {
		return nil, err
	}

	ed.AddModule(editor.NewCompletionUI(h.opts.Stderr))
	ed.AddModule(editor.NewScroller(h.opts.Stdout))
	ed.AddModule(editor.NewHostModule(h.name, h.sessionID))

	ed.AddGenerator(ctx.Engine.Generator())
	ed.AddGenerator(editor.NewFileMatchGenerator())

	return ed, nil
}

// scriptPromptStep wraps a script prompt function as a filter step,
// converting panics inside interpreted code into step errors so a defective
// script falls back to the raw prompt instead of killing the session.
func scriptPromptStep(fn script.PromptFunc) promptfilter.Step {
	return func(p string) (out string, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("prompt filter panicked: %v", r)
			}
		}()
		return fn(p), nil
	}
}

// invokesReservedCommand reports whether line, after trimming leading
// whitespace, invokes the reserved "history" command. The match is
// case-insensitive and requires a full command word: "historyx" does not
// match.
func invokesReservedCommand(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	word := trimmed
	if idx := strings.IndexAny(trimmed, " \t"); idx != -1 {
		word = trimmed[:idx]
	}
	return strings.EqualFold(word, reservedCommand)
}
