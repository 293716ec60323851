package editor

import (
	"strings"
	"unicode"

	"hostline/pkg/shelltypes"
)

// completer implements the readline.AutoCompleter interface over the
// editor's generator chain.
type completer struct {
	editor *Editor
}

// Do analyzes the current line and cursor position, consults the generator
// chain and returns the completion suffixes readline expects, together with
// the length of the word being completed.
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	lineStr := string(line)
	if pos > len(line) {
		pos = len(line)
	}
	byteCursor := len(string(line[:pos]))

	wordStart := findWordStart(lineStr, byteCursor)
	word := lineStr[wordStart:byteCursor]

	ctx := shelltypes.MatchContext{
		Line:   lineStr,
		Cursor: byteCursor,
		Word:   word,
	}

	candidates := c.editor.GenerateMatches(ctx)

	wordLen := len([]rune(word))
	var suggestions [][]rune
	var matched []string
	for _, candidate := range candidates {
		if !matchesPrefix(candidate, word, c.editor.compare) {
			continue
		}
		matched = append(matched, candidate)
		runes := []rune(candidate)
		if len(runes) >= wordLen {
			suggestions = append(suggestions, runes[wordLen:])
		}
	}

	for _, m := range c.editor.modules {
		if ui, ok := m.(candidateRenderer); ok {
			ui.ShowCandidates(matched)
			break
		}
	}

	return suggestions, wordLen
}

// candidateRenderer is implemented by the module that owns rendering of
// candidate lists.
type candidateRenderer interface {
	ShowCandidates(candidates []string)
}

// findWordStart finds the byte offset where the word under completion
// begins, scanning backwards from the cursor to the nearest separator.
func findWordStart(line string, pos int) int {
	for i := pos - 1; i >= 0; i-- {
		if i >= len(line) {
			continue
		}
		switch line[i] {
		case ' ', '\t', '=', '"', '\'':
			return i + 1
		}
	}
	return 0
}

// matchesPrefix reports whether candidate starts with word under the given
// compare mode. Caseless folds letter case; relaxed additionally treats '-'
// and '_' as equal.
func matchesPrefix(candidate, word string, mode shelltypes.CompareMode) bool {
	if mode == shelltypes.CompareExact {
		return strings.HasPrefix(candidate, word)
	}

	cr := []rune(candidate)
	wr := []rune(word)
	if len(cr) < len(wr) {
		return false
	}
	relaxed := mode == shelltypes.CompareRelaxed
	for i := range wr {
		if !runesEqual(cr[i], wr[i], relaxed) {
			return false
		}
	}
	return true
}

func runesEqual(a, b rune, relaxed bool) bool {
	if a == b {
		return true
	}
	if relaxed && (a == '-' || a == '_') && (b == '-' || b == '_') {
		return true
	}
	return unicode.ToLower(a) == unicode.ToLower(b)
}
