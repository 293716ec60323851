package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hostline/internal/logger"
	"hostline/pkg/shelltypes"
)

// fakeGenerator returns a fixed candidate list for every context.
type fakeGenerator struct {
	name       string
	candidates []string
	seen       []shelltypes.MatchContext
}

func (g *fakeGenerator) Name() string { return g.name }

func (g *fakeGenerator) GenerateMatches(ctx shelltypes.MatchContext) []string {
	g.seen = append(g.seen, ctx)
	return g.candidates
}

// keyModule consumes a single configured key.
type keyModule struct {
	name     string
	consumes rune
	events   []rune
}

func (m *keyModule) Name() string { return m.name }

func (m *keyModule) OnKey(line []rune, pos int, key rune) ([]rune, int, bool) {
	m.events = append(m.events, key)
	return line, pos, key == m.consumes
}

func (m *keyModule) OnAccept(_ string) bool { return true }
func (m *keyModule) Close() error           { return nil }

func newTestEditor(mode shelltypes.CompareMode) *Editor {
	return &Editor{
		compare: mode,
		logger:  logger.NewStyledLogger("Editor"),
	}
}

func TestGenerateMatches_PreservesGeneratorOrder(t *testing.T) {
	e := newTestEditor(shelltypes.CompareExact)
	g1 := &fakeGenerator{name: "G1", candidates: []string{"foo"}}
	g2 := &fakeGenerator{name: "G2", candidates: []string{"bar"}}
	e.AddGenerator(g1)
	e.AddGenerator(g2)

	combined := e.GenerateMatches(shelltypes.MatchContext{Line: "f", Cursor: 1, Word: "f"})

	// Earlier generators supply candidates before later ones.
	assert.Equal(t, []string{"foo", "bar"}, combined)
}

func TestGenerateMatches_EmptyGeneratorDoesNotHaltChain(t *testing.T) {
	e := newTestEditor(shelltypes.CompareExact)
	e.AddGenerator(&fakeGenerator{name: "empty"})
	e.AddGenerator(&fakeGenerator{name: "full", candidates: []string{"x"}})

	combined := e.GenerateMatches(shelltypes.MatchContext{})
	assert.Equal(t, []string{"x"}, combined)
}

func TestCompleter_SuffixesAndWordLength(t *testing.T) {
	e := newTestEditor(shelltypes.CompareExact)
	gen := &fakeGenerator{name: "g", candidates: []string{"status", "stash", "log"}}
	e.AddGenerator(gen)
	c := &completer{editor: e}

	line := []rune("git st")
	suggestions, length := c.Do(line, len(line))

	assert.Equal(t, 2, length)
	assert.Equal(t, [][]rune{[]rune("atus"), []rune("ash")}, suggestions)

	// The generator saw the word under completion, not the whole line.
	assert.Equal(t, "st", gen.seen[0].Word)
	assert.Equal(t, "git st", gen.seen[0].Line)
}

func TestCompleter_CaselessMatching(t *testing.T) {
	e := newTestEditor(shelltypes.CompareCaseless)
	e.AddGenerator(&fakeGenerator{name: "g", candidates: []string{"README.md", "readout"}})
	c := &completer{editor: e}

	line := []rune("cat read")
	suggestions, _ := c.Do(line, len(line))

	assert.Equal(t, [][]rune{[]rune("ME.md"), []rune("out")}, suggestions)
}

func TestMatchesPrefix(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		word      string
		mode      shelltypes.CompareMode
		want      bool
	}{
		{"exact match", "foobar", "foo", shelltypes.CompareExact, true},
		{"exact case mismatch", "Foobar", "foo", shelltypes.CompareExact, false},
		{"caseless match", "Foobar", "foo", shelltypes.CompareCaseless, true},
		{"caseless separator mismatch", "foo-bar", "foo_", shelltypes.CompareCaseless, false},
		{"relaxed separator match", "foo-bar", "foo_", shelltypes.CompareRelaxed, true},
		{"relaxed case and separator", "Foo_Bar", "foo-b", shelltypes.CompareRelaxed, true},
		{"word longer than candidate", "fo", "foo", shelltypes.CompareCaseless, false},
		{"empty word matches", "anything", "", shelltypes.CompareExact, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesPrefix(tt.candidate, tt.word, tt.mode))
		})
	}
}

func TestFindWordStart(t *testing.T) {
	tests := []struct {
		line string
		pos  int
		want int
	}{
		{"", 0, 0},
		{"word", 4, 0},
		{"two words", 9, 4},
		{"a=b", 3, 2},
		{"cd dir/sub", 10, 3},
		{"echo \"qu", 8, 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, findWordStart(tt.line, tt.pos), "line %q pos %d", tt.line, tt.pos)
	}
}

func TestModuleListener_DispatchOrderAndConsumption(t *testing.T) {
	e := newTestEditor(shelltypes.CompareExact)
	first := &keyModule{name: "first", consumes: 'x'}
	second := &keyModule{name: "second", consumes: 'y'}
	e.AddModule(first)
	e.AddModule(second)
	l := &moduleListener{editor: e}

	// 'x' is consumed by the first module; the second never sees it.
	_, _, consumed := l.OnChange([]rune("a"), 1, 'x')
	assert.True(t, consumed)
	assert.Equal(t, []rune{'x'}, first.events)
	assert.Empty(t, second.events)

	// 'z' passes through both modules unconsumed.
	_, _, consumed = l.OnChange([]rune("a"), 1, 'z')
	assert.False(t, consumed)
	assert.Equal(t, []rune{'x', 'z'}, first.events)
	assert.Equal(t, []rune{'z'}, second.events)
}
