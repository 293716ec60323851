// Package config resolves the per-session configuration snapshot for
// hostline. Settings come from a viper-backed settings file with documented
// defaults; script search paths additionally merge the HOSTLINE_PATH
// environment variable. Resolution never fails: missing or invalid values
// resolve to defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"hostline/internal/logger"
	"hostline/pkg/shelltypes"
)

// Settings keys and their defaults.
const (
	// KeyScriptPath is the semicolon-delimited list of directories searched
	// for host scripts.
	KeyScriptPath = "scripts.path"
	// KeyIgnoreCase is the three-valued candidate-matching mode: off|on|relaxed.
	KeyIgnoreCase = "match.ignore_case"
	// KeyRecordHistoryCmd toggles recording of reserved "history" command lines.
	KeyRecordHistoryCmd = "history.record_history_cmd"
	// KeyVerifyExpansion forces every history expansion through a review edit.
	KeyVerifyExpansion = "history.verify_expansion"

	// EnvScriptPath is the environment variable whose semicolon-delimited
	// paths are appended after the settings-defined script paths.
	EnvScriptPath = "HOSTLINE_PATH"
)

// Resolver produces immutable SessionConfig snapshots from a settings file
// and the process environment.
type Resolver struct {
	v *viper.Viper
}

// NewResolver creates a resolver over the settings file at settingsPath.
// A missing or unreadable settings file is not an error; every setting then
// resolves to its default.
func NewResolver(settingsPath string) *Resolver {
	v := viper.New()
	v.SetDefault(KeyScriptPath, "")
	v.SetDefault(KeyIgnoreCase, "off")
	v.SetDefault(KeyRecordHistoryCmd, true)
	v.SetDefault(KeyVerifyExpansion, false)

	if settingsPath != "" {
		v.SetConfigFile(settingsPath)
		if err := v.ReadInConfig(); err != nil {
			logger.Debug("Settings file not loaded, using defaults", "path", settingsPath, "error", err)
		}
	}

	return &Resolver{v: v}
}

// Resolve reads the settings once and returns the session configuration
// snapshot. It never fails.
func (r *Resolver) Resolve() shelltypes.SessionConfig {
	paths := SplitPathList(r.v.GetString(KeyScriptPath))
	paths = append(paths, SplitPathList(os.Getenv(EnvScriptPath))...)

	cfg := shelltypes.SessionConfig{
		CompareMode:      shelltypes.ParseCompareMode(r.v.GetString(KeyIgnoreCase)),
		RecordHistoryCmd: r.v.GetBool(KeyRecordHistoryCmd),
		VerifyExpansion:  r.v.GetBool(KeyVerifyExpansion),
		ScriptPaths:      paths,
	}

	logger.Debug("Session configuration resolved",
		"compare_mode", cfg.CompareMode.String(),
		"record_history_cmd", cfg.RecordHistoryCmd,
		"script_paths", len(cfg.ScriptPaths))
	return cfg
}

// SplitPathList splits a semicolon-delimited path list, skipping empty
// entries.
func SplitPathList(raw string) []string {
	var paths []string
	for _, p := range strings.Split(raw, ";") {
		p = strings.TrimSpace(p)
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// LoadEnvOverlay loads a .env file from dir into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvOverlay(dir string) {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		logger.Warn("Failed to load .env overlay", "path", path, "error", err)
	}
}
