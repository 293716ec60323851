// Package editor adapts the readline editing core into the hostline
// pipeline model: an ordered list of behavior modules dispatched on every
// key event and an ordered list of match generators consulted for
// completion. The Editor implements shelltypes.LineEditor; it is built once
// per session and must be closed on every exit path.
package editor

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/chzyer/readline"

	"hostline/internal/logger"
	"hostline/pkg/shelltypes"
)

// Desc describes the editor to be built: the filtered prompt, the terminal
// streams that handle all I/O while editing, and the session compare mode.
type Desc struct {
	Prompt      string
	CompareMode shelltypes.CompareMode
	// History seeds the editor's recall ring (arrow-up) with the session's
	// loaded history entries. The editor never persists history itself.
	History []string
	Stdin   io.ReadCloser
	Stdout  io.Writer
	Stderr  io.Writer
}

// Editor drives one interactive editing session over a readline instance.
type Editor struct {
	rl         *readline.Instance
	modules    []shelltypes.Module
	generators []shelltypes.Generator
	compare    shelltypes.CompareMode
	logger     *log.Logger
	closed     bool
}

// New allocates the editing core described by desc. The caller owns the
// returned editor and must Close it on every exit path.
func New(desc Desc) (*Editor, error) {
	e := &Editor{
		compare: desc.CompareMode,
		logger:  logger.NewStyledLogger("Editor"),
	}

	cfg := &readline.Config{
		Prompt:                 desc.Prompt,
		InterruptPrompt:        "^C",
		EOFPrompt:              "",
		DisableAutoSaveHistory: true,
		HistorySearchFold:      desc.CompareMode != shelltypes.CompareExact,
		AutoComplete:           &completer{editor: e},
		Listener:               &moduleListener{editor: e},
		Stdin:                  desc.Stdin,
		Stdout:                 desc.Stdout,
		Stderr:                 desc.Stderr,
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create line editor: %w", err)
	}
	e.rl = rl

	for _, entry := range desc.History {
		_ = rl.SaveHistory(entry)
	}

	return e, nil
}

// AddModule appends a behavior module. Order is significant: earlier
// modules see and may consume key events before later ones.
func (e *Editor) AddModule(m shelltypes.Module) {
	e.modules = append(e.modules, m)
	e.logger.Debug("Module registered", "module", m.Name(), "order", len(e.modules))
}

// AddGenerator appends a match generator. Order defines combination
// priority: an earlier generator's candidates precede a later one's.
func (e *Editor) AddGenerator(g shelltypes.Generator) {
	e.generators = append(e.generators, g)
	e.logger.Debug("Generator registered", "generator", g.Name(), "order", len(e.generators))
}

// Edit runs one interactive edit with initial pre-loaded as the buffer
// content. It blocks on terminal input until the user accepts or aborts.
// Acceptance may be vetoed by a module, in which case editing resumes with
// the same buffer.
func (e *Editor) Edit(initial string) (string, bool, error) {
	buffer := initial
	for {
		line, err := e.rl.ReadlineWithDefault(buffer)
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return "", false, nil
			}
			return "", false, fmt.Errorf("line edit failed: %w", err)
		}

		vetoed := false
		for _, m := range e.modules {
			if !m.OnAccept(line) {
				e.logger.Debug("Acceptance vetoed", "module", m.Name())
				vetoed = true
				break
			}
		}
		if vetoed {
			buffer = line
			continue
		}
		return line, true, nil
	}
}

// Close tears down the editing core and every module registered on it.
// Safe to call more than once.
func (e *Editor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	var firstErr error
	for _, m := range e.modules {
		if err := m.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := e.rl.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// GenerateMatches consults the generator chain in order for the given
// context and returns the combined candidate sequence, earlier generators
// first. A generator producing no candidates does not halt the chain.
func (e *Editor) GenerateMatches(ctx shelltypes.MatchContext) []string {
	var combined []string
	for _, g := range e.generators {
		combined = append(combined, g.GenerateMatches(ctx)...)
	}
	return combined
}

// moduleListener dispatches readline key events through the module chain in
// registration order. The first module to consume an event hides it from
// the rest.
type moduleListener struct {
	editor *Editor
}

func (l *moduleListener) OnChange(line []rune, pos int, key rune) ([]rune, int, bool) {
	for _, m := range l.editor.modules {
		newLine, newPos, consumed := m.OnKey(line, pos, key)
		if consumed {
			return newLine, newPos, true
		}
	}
	return line, pos, false
}
