// Package prompt implements the prompt filter chain: an ordered sequence of
// text transforms applied to the raw prompt before display.
package prompt

import (
	"github.com/charmbracelet/log"

	"hostline/internal/logger"
)

// Step is a single prompt transform. It receives the output of the previous
// step and returns the transformed prompt or an error.
type Step func(prompt string) (string, error)

// FilterChain applies registered steps in registration order. Steps hold no
// state between invocations.
type FilterChain struct {
	steps  []Step
	logger *log.Logger
}

// NewFilterChain creates an empty filter chain.
func NewFilterChain() *FilterChain {
	return &FilterChain{
		logger: logger.NewStyledLogger("Prompt"),
	}
}

// Register appends a transform step to the chain.
func (c *FilterChain) Register(step Step) {
	c.steps = append(c.steps, step)
}

// Len returns the number of registered steps.
func (c *FilterChain) Len() int {
	return len(c.steps)
}

// Filter runs the chain over raw. A failing step aborts filtering and the
// raw prompt is returned unchanged; a filter defect never blocks session
// start.
func (c *FilterChain) Filter(raw string) string {
	filtered := raw
	for i, step := range c.steps {
		next, err := step(filtered)
		if err != nil {
			c.logger.Warn("Prompt filter step failed, using raw prompt", "step", i, "error", err)
			return raw
		}
		filtered = next
	}
	return filtered
}
