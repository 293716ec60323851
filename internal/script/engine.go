// Package script hosts the session's scripting engine. Host scripts are Go
// source files interpreted with yaegi at session start; a script contributes
// behavior by defining well-known functions:
//
//	func GenerateMatches(line, word string) []string  completion candidates
//	func FilterPrompt(prompt string) string           prompt transform step
//
// Each script runs in its own interpreter so scripts cannot collide on
// symbol names. Only the standard library is available to scripts.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"hostline/internal/logger"
	"hostline/pkg/shelltypes"
)

// MatchFunc is the candidate-producing function a script may define.
type MatchFunc func(line, word string) []string

// PromptFunc is the prompt-transform function a script may define.
type PromptFunc func(prompt string) string

// Engine loads and runs host scripts and collects the capabilities they
// register. Lifetime is one editing session.
type Engine struct {
	matchers []MatchFunc
	filters  []PromptFunc
	logger   *log.Logger
}

// NewEngine creates an empty script engine.
func NewEngine() *Engine {
	return &Engine{
		logger: logger.NewStyledLogger("Script"),
	}
}

// LoadAndRun evaluates a single script file and records any capabilities it
// defines.
func (e *Engine) LoadAndRun(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script %s: %w", path, err)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("failed to load stdlib into interpreter: %w", err)
	}
	if _, err := i.Eval(string(src)); err != nil {
		return fmt.Errorf("failed to evaluate script %s: %w", path, err)
	}

	if v, err := i.Eval("main.GenerateMatches"); err == nil {
		if fn, ok := v.Interface().(func(string, string) []string); ok {
			e.matchers = append(e.matchers, fn)
			e.logger.Debug("Script registered matcher", "path", path)
		}
	}
	if v, err := i.Eval("main.FilterPrompt"); err == nil {
		if fn, ok := v.Interface().(func(string) string); ok {
			e.filters = append(e.filters, fn)
			e.logger.Debug("Script registered prompt filter", "path", path)
		}
	}

	return nil
}

// LoadScripts evaluates every *.go script under each search path, in path
// order and in sorted file order within a path. A defective script is
// logged and skipped; it never blocks session start.
func (e *Engine) LoadScripts(paths []string) {
	for _, dir := range paths {
		matches, err := filepath.Glob(filepath.Join(dir, "*.go"))
		if err != nil {
			continue
		}
		sort.Strings(matches)
		for _, path := range matches {
			if err := e.LoadAndRun(path); err != nil {
				e.logger.Warn("Script load failed", "path", path, "error", err)
			}
		}
	}
}

// Generator adapts the script-registered matchers into a completion
// generator. It is the highest-priority source in the pipeline.
func (e *Engine) Generator() shelltypes.Generator {
	return &scriptGenerator{engine: e}
}

// PromptFuncs returns the prompt-transform steps scripts registered, in
// load order.
func (e *Engine) PromptFuncs() []PromptFunc {
	out := make([]PromptFunc, len(e.filters))
	copy(out, e.filters)
	return out
}

// MatcherCount reports how many match functions scripts registered.
func (e *Engine) MatcherCount() int {
	return len(e.matchers)
}

type scriptGenerator struct {
	engine *Engine
}

func (g *scriptGenerator) Name() string {
	return "script"
}

// GenerateMatches consults every script matcher in load order and preserves
// the order of the candidates each returns.
func (g *scriptGenerator) GenerateMatches(ctx shelltypes.MatchContext) []string {
	var candidates []string
	for _, fn := range g.engine.matchers {
		candidates = append(candidates, fn(ctx.Line, ctx.Word)...)
	}
	return candidates
}
