package history

import (
	"strings"
	"unicode"

	"hostline/pkg/shelltypes"
)

// Expand resolves history-expansion syntax in line against the in-memory
// log. Supported forms:
//
//	!!          the previous entry
//	!N          entry N, counting from 1
//	!-N         the Nth most recent entry
//	!prefix     the most recent entry starting with prefix
//	!?substr?   the most recent entry containing substr (closing ? optional)
//	^old^new^   the previous entry with the first old replaced by new
//
// A ":p" modifier after any event forces the expansion to be reviewed
// instead of committed. An unresolvable reference also yields
// ExpandedNeedsReview with the original text, so the user sees the problem
// instead of silently executing something else. Text without references is
// returned unchanged with NoExpansion.
func (s *Store) Expand(line string) (shelltypes.ExpansionResult, string) {
	if strings.HasPrefix(line, "^") {
		return s.quickSubstitute(line)
	}

	var out strings.Builder
	changed := false
	review := false

	i := 0
	for i < len(line) {
		c := line[i]

		// A backslash shields the following '!' from expansion.
		if c == '\\' && i+1 < len(line) && line[i+1] == '!' {
			out.WriteString(line[i : i+2])
			i += 2
			continue
		}

		if c != '!' {
			out.WriteByte(c)
			i++
			continue
		}

		// '!' followed by whitespace, '=' or '(' is literal, as is a
		// trailing '!'.
		if i+1 >= len(line) || isLiteralBang(line[i+1]) {
			out.WriteByte(c)
			i++
			continue
		}

		text, next, ok := s.resolveEvent(line, i)
		if !ok {
			return shelltypes.ExpandedNeedsReview, line
		}
		if strings.HasPrefix(line[next:], ":p") {
			next += 2
			review = true
		}
		out.WriteString(text)
		changed = true
		i = next
	}

	if !changed {
		return shelltypes.NoExpansion, line
	}
	if review {
		return shelltypes.ExpandedNeedsReview, out.String()
	}
	return shelltypes.ExpandedCommitable, out.String()
}

// resolveEvent resolves the history event starting at line[start] (which is
// '!'). It returns the replacement text and the offset just past the event.
func (s *Store) resolveEvent(line string, start int) (text string, next int, ok bool) {
	i := start + 1

	switch {
	case line[i] == '!':
		if len(s.entries) == 0 {
			return "", 0, false
		}
		return s.entries[len(s.entries)-1], i + 1, true

	case line[i] == '?':
		end := strings.IndexByte(line[i+1:], '?')
		var substr string
		if end == -1 {
			substr = line[i+1:]
			next = len(line)
		} else {
			substr = line[i+1 : i+1+end]
			next = i + 1 + end + 1
		}
		if substr == "" {
			return "", 0, false
		}
		for j := len(s.entries) - 1; j >= 0; j-- {
			if strings.Contains(s.entries[j], substr) {
				return s.entries[j], next, true
			}
		}
		return "", 0, false

	case line[i] == '-' || isDigit(line[i]):
		negative := line[i] == '-'
		if negative {
			i++
		}
		n := 0
		digits := 0
		for i < len(line) && isDigit(line[i]) {
			n = n*10 + int(line[i]-'0')
			i++
			digits++
		}
		if digits == 0 {
			return "", 0, false
		}
		idx := n - 1
		if negative {
			idx = len(s.entries) - n
		}
		if idx < 0 || idx >= len(s.entries) {
			return "", 0, false
		}
		return s.entries[idx], i, true

	default:
		for i < len(line) && isEventWordChar(line[i]) {
			i++
		}
		prefix := line[start+1 : i]
		if prefix == "" {
			return "", 0, false
		}
		for j := len(s.entries) - 1; j >= 0; j-- {
			if strings.HasPrefix(s.entries[j], prefix) {
				return s.entries[j], i, true
			}
		}
		return "", 0, false
	}
}

// quickSubstitute handles the ^old^new^ form against the previous entry.
func (s *Store) quickSubstitute(line string) (shelltypes.ExpansionResult, string) {
	parts := strings.SplitN(line[1:], "^", 3)
	if len(parts) < 2 || parts[0] == "" {
		return shelltypes.NoExpansion, line
	}
	old, repl := parts[0], parts[1]

	if len(s.entries) == 0 {
		return shelltypes.ExpandedNeedsReview, line
	}
	last := s.entries[len(s.entries)-1]
	if !strings.Contains(last, old) {
		return shelltypes.ExpandedNeedsReview, line
	}

	expanded := strings.Replace(last, old, repl, 1)
	if len(parts) == 3 && strings.HasPrefix(parts[2], ":p") {
		return shelltypes.ExpandedNeedsReview, expanded
	}
	return shelltypes.ExpandedCommitable, expanded
}

func isLiteralBang(c byte) bool {
	return c == ' ' || c == '\t' || c == '=' || c == '('
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isEventWordChar(c byte) bool {
	if c == ' ' || c == '\t' || c == ':' || c == '!' || c == '^' || c == '?' {
		return false
	}
	return unicode.IsPrint(rune(c))
}
