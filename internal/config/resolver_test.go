package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostline/pkg/shelltypes"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestResolver_Defaults(t *testing.T) {
	// No settings file at all: every setting resolves to its default.
	r := NewResolver(filepath.Join(t.TempDir(), "missing.yaml"))
	cfg := r.Resolve()

	assert.Equal(t, shelltypes.CompareExact, cfg.CompareMode)
	assert.True(t, cfg.RecordHistoryCmd)
	assert.False(t, cfg.VerifyExpansion)
	assert.Empty(t, cfg.ScriptPaths)
}

func TestResolver_EmptyPathIsAllDefaults(t *testing.T) {
	cfg := NewResolver("").Resolve()
	assert.Equal(t, shelltypes.CompareExact, cfg.CompareMode)
	assert.True(t, cfg.RecordHistoryCmd)
}

func TestResolver_CompareModeMapping(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  shelltypes.CompareMode
	}{
		{"off maps to exact", "off", shelltypes.CompareExact},
		{"on maps to caseless", "on", shelltypes.CompareCaseless},
		{"relaxed maps to relaxed", "relaxed", shelltypes.CompareRelaxed},
		{"unknown maps to exact", "sometimes", shelltypes.CompareExact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSettings(t, "match:\n  ignore_case: "+tt.value+"\n")
			cfg := NewResolver(path).Resolve()
			assert.Equal(t, tt.want, cfg.CompareMode)
		})
	}
}

func TestResolver_HistoryPolicy(t *testing.T) {
	path := writeSettings(t, "history:\n  record_history_cmd: false\n  verify_expansion: true\n")
	cfg := NewResolver(path).Resolve()

	assert.False(t, cfg.RecordHistoryCmd)
	assert.True(t, cfg.VerifyExpansion)
}

func TestResolver_ScriptPathsMergeSettingsThenEnv(t *testing.T) {
	path := writeSettings(t, "scripts:\n  path: /a;/b;;\n")
	t.Setenv(EnvScriptPath, ";/c; /d ;")

	cfg := NewResolver(path).Resolve()

	// Settings paths come first, env paths after, empty entries skipped.
	assert.Equal(t, []string{"/a", "/b", "/c", "/d"}, cfg.ScriptPaths)
}

func TestResolver_EnvPathsOnly(t *testing.T) {
	t.Setenv(EnvScriptPath, "/scripts")
	cfg := NewResolver("").Resolve()
	assert.Equal(t, []string{"/scripts"}, cfg.ScriptPaths)
}

func TestSplitPathList(t *testing.T) {
	assert.Nil(t, SplitPathList(""))
	assert.Nil(t, SplitPathList(";;;"))
	assert.Equal(t, []string{"one"}, SplitPathList("one"))
	assert.Equal(t, []string{"one", "two"}, SplitPathList("one;two"))
	assert.Equal(t, []string{"one", "two"}, SplitPathList(" one ; ; two"))
}
