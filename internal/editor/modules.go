package editor

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"hostline/internal/logger"
)

// CompletionUI owns the rendering of candidate lists. It paints the current
// candidates on the line above the prompt and clears them when they change
// or when the editor shuts down.
type CompletionUI struct {
	out           io.Writer
	lastShown     []string
	displayActive bool

	candidateStyle lipgloss.Style
	countStyle     lipgloss.Style
}

// NewCompletionUI creates the candidate-list renderer writing to out.
// A nil out defaults to stderr.
func NewCompletionUI(out io.Writer) *CompletionUI {
	if out == nil {
		out = os.Stderr
	}
	return &CompletionUI{
		out:            out,
		candidateStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		countStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Name identifies the module in logs.
func (u *CompletionUI) Name() string {
	return "completion-ui"
}

// OnKey observes key events but never consumes them; the UI only renders.
func (u *CompletionUI) OnKey(line []rune, pos int, _ rune) ([]rune, int, bool) {
	return line, pos, false
}

// OnAccept never vetoes.
func (u *CompletionUI) OnAccept(_ string) bool {
	return true
}

// Close clears any candidate display still on screen.
func (u *CompletionUI) Close() error {
	u.clear()
	return nil
}

// ShowCandidates renders the candidate list above the edit line. An empty
// list clears the display.
func (u *CompletionUI) ShowCandidates(candidates []string) {
	if len(candidates) == 0 {
		u.clear()
		return
	}
	if equalStrings(candidates, u.lastShown) {
		return
	}

	const maxShown = 8
	shown := candidates
	if len(shown) > maxShown {
		shown = shown[:maxShown]
	}

	display := u.candidateStyle.Render(strings.Join(shown, "  "))
	if len(candidates) > maxShown {
		display += u.countStyle.Render(fmt.Sprintf(" (+%d more)", len(candidates)-maxShown))
	}

	// Save cursor, paint the line above, restore cursor.
	fmt.Fprintf(u.out, "\033[s\033[1A\033[K%s\033[u", display)
	u.displayActive = true
	u.lastShown = append([]string(nil), candidates...)
}

func (u *CompletionUI) clear() {
	if !u.displayActive {
		return
	}
	fmt.Fprintf(u.out, "\033[s\033[1A\033[K\033[u")
	u.displayActive = false
	u.lastShown = nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Scroll keys handled by the Scroller module.
const (
	keyScrollUp   = 0x0f // Ctrl-O
	keyScrollDown = 0x07 // Ctrl-G
)

// Scroller controls the terminal scroll region, paging the backlog without
// leaving the edit line.
type Scroller struct {
	out    io.Writer
	height func() int
	logger *log.Logger
}

// NewScroller creates the scroll-region module writing to out. A nil out
// defaults to stdout.
func NewScroller(out io.Writer) *Scroller {
	if out == nil {
		out = os.Stdout
	}
	return &Scroller{
		out:    out,
		height: terminalHeight,
		logger: logger.NewStyledLogger("Scroller"),
	}
}

// Name identifies the module in logs.
func (s *Scroller) Name() string {
	return "scroller"
}

// OnKey consumes the scroll keys and pages the terminal by one screen.
func (s *Scroller) OnKey(line []rune, pos int, key rune) ([]rune, int, bool) {
	switch key {
	case keyScrollUp:
		s.page(-1)
		return line, pos, true
	case keyScrollDown:
		s.page(1)
		return line, pos, true
	}
	return line, pos, false
}

// OnAccept never vetoes.
func (s *Scroller) OnAccept(_ string) bool {
	return true
}

// Close is a no-op; the scroller holds no resources.
func (s *Scroller) Close() error {
	return nil
}

func (s *Scroller) page(direction int) {
	rows := s.height() - 1
	if rows < 1 {
		rows = 1
	}
	if direction < 0 {
		fmt.Fprintf(s.out, "\033[%dT", rows)
	} else {
		fmt.Fprintf(s.out, "\033[%dS", rows)
	}
	s.logger.Debug("Scrolled", "direction", direction, "rows", rows)
}

func terminalHeight() int {
	_, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || h <= 0 {
		return 24
	}
	return h
}

// HostModule carries the host application identity through the pipeline and
// applies host policy to accepted lines: whitespace-only lines are vetoed
// so the session never commits a blank command.
type HostModule struct {
	appName   string
	sessionID string
	logger    *log.Logger
}

// NewHostModule creates the host-policy module for the named application.
func NewHostModule(appName, sessionID string) *HostModule {
	return &HostModule{
		appName:   appName,
		sessionID: sessionID,
		logger:    logger.NewStyledLogger("Host"),
	}
}

// Name identifies the module in logs.
func (h *HostModule) Name() string {
	return "host:" + h.appName
}

// OnKey observes key events without consuming them.
func (h *HostModule) OnKey(line []rune, pos int, _ rune) ([]rune, int, bool) {
	return line, pos, false
}

// OnAccept vetoes whitespace-only lines; editing resumes instead of
// committing a blank entry.
func (h *HostModule) OnAccept(line string) bool {
	if strings.TrimSpace(line) == "" && line != "" {
		return false
	}
	h.logger.Debug("Line accepted", "session", h.sessionID, "line", line)
	return true
}

// Close is a no-op; the host module holds no resources.
func (h *HostModule) Close() error {
	return nil
}
