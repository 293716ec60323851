// Package shelltypes defines the core data types and interfaces shared across
// the hostline session host: comparison modes, history-expansion outcomes,
// the session configuration snapshot, and the editing pipeline contracts.
package shelltypes

// CompareMode controls the case and word-separator sensitivity used when
// matching completion candidates against user input.
type CompareMode int

const (
	// CompareExact - matching is fully case sensitive
	CompareExact CompareMode = iota
	// CompareCaseless - matching ignores letter case
	CompareCaseless
	// CompareRelaxed - matching ignores letter case and treats '-' and '_' as equal
	CompareRelaxed
)

// String returns a human-readable representation of the compare mode.
func (m CompareMode) String() string {
	switch m {
	case CompareCaseless:
		return "caseless"
	case CompareRelaxed:
		return "relaxed"
	default:
		return "exact"
	}
}

// ParseCompareMode maps the three-valued "match.ignore_case" setting to a
// CompareMode. Unrecognized values map to CompareExact.
func ParseCompareMode(value string) CompareMode {
	switch value {
	case "on":
		return CompareCaseless
	case "relaxed":
		return CompareRelaxed
	default:
		return CompareExact
	}
}

// ExpansionResult classifies the outcome of resolving history-expansion
// syntax against the history log.
type ExpansionResult int

const (
	// NoExpansion - the input contained no history references; it is returned unchanged
	NoExpansion ExpansionResult = iota
	// ExpandedCommitable - references were resolved and the expanded text is safe to commit
	ExpandedCommitable
	// ExpandedNeedsReview - the expanded text must be shown to the user and re-edited,
	// never executed directly
	ExpandedNeedsReview
)

// String returns a human-readable representation of the expansion result.
func (r ExpansionResult) String() string {
	switch r {
	case ExpandedCommitable:
		return "ExpandedCommitable"
	case ExpandedNeedsReview:
		return "ExpandedNeedsReview"
	default:
		return "NoExpansion"
	}
}

// SessionConfig is the immutable per-session configuration snapshot produced
// by the configuration resolver at session start. It is read-only for the
// lifetime of the session.
type SessionConfig struct {
	// CompareMode is the candidate-matching sensitivity for this session.
	CompareMode CompareMode
	// RecordHistoryCmd controls whether lines invoking the reserved
	// "history" command are recorded into the history log.
	RecordHistoryCmd bool
	// VerifyExpansion forces every history expansion to be re-displayed
	// for review before it can be committed.
	VerifyExpansion bool
	// ScriptPaths is the ordered list of directories searched for host
	// scripts, settings-defined paths first, environment paths after.
	ScriptPaths []string
}

// MatchContext carries the input state a generator sees when asked for
// completion candidates.
type MatchContext struct {
	// Line is the full edit buffer.
	Line string
	// Cursor is the byte offset of the cursor within Line.
	Cursor int
	// Word is the word being completed, from its start to the cursor.
	Word string
}

// Generator is a pluggable source of completion candidates. Generators are
// consulted in registration order; returning no candidates does not halt
// the chain.
type Generator interface {
	// Name identifies the generator in logs.
	Name() string
	// GenerateMatches returns candidate completions for the given context.
	GenerateMatches(ctx MatchContext) []string
}

// Module is a pluggable unit of editing-session behavior. Modules are
// dispatched in registration order; an earlier module that consumes a key
// event hides it from later modules.
type Module interface {
	// Name identifies the module in logs.
	Name() string
	// OnKey observes a key event against the current buffer. It returns the
	// possibly rewritten line and cursor, plus whether the event was
	// consumed.
	OnKey(line []rune, pos int, key rune) (newLine []rune, newPos int, consumed bool)
	// OnAccept may veto acceptance of a line, forcing the edit to continue.
	OnAccept(line string) bool
	// Close releases any resources the module owns.
	Close() error
}

// LineEditor is the editing-core contract the session host consumes. Edit
// blocks on terminal input until the user accepts or aborts the line; it is
// the sole suspension point of a session.
type LineEditor interface {
	// Edit runs one interactive edit over the given initial buffer content.
	// It returns the resulting line and true on acceptance, or false when
	// the edit was aborted.
	Edit(initial string) (string, bool, error)
	// Close tears down the editor and every module it owns.
	Close() error
}
