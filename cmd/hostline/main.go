// Package main provides the hostline CLI entry point. hostline hosts an
// interactive line-editing session in front of the system shell: it reads
// lines through the editing pipeline, applies history expansion, and hands
// committed lines to `sh -c`.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hostline/internal/config"
	"hostline/internal/host"
	"hostline/internal/logger"
)

var (
	logLevel     string
	logFile      string
	settingsPath string
	historyPath  string
	version      = "0.1.0" // set at build time
)

// rootCmd starts the interactive session loop when called without a
// subcommand.
var rootCmd = &cobra.Command{
	Use:   "hostline",
	Short: "hostline - session host for interactive line editing",
	Long: `hostline prepares an interactive line-editing session: it composes a
pipeline of editing modules and completion generators, manages persistent
history including !-style expansion, and feeds accepted lines to the shell.`,
	Run: runSession,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("hostline v%s\n", version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to the settings file")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history", "", "Path to the history file")

	for _, name := range []string{"log-level", "log-file", "settings", "history"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", name, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(versionCmd)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if err := logger.Configure(logLevel, logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

func runSession(_ *cobra.Command, _ []string) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		logger.Fatal("hostline requires an interactive terminal")
	}

	if wd, err := os.Getwd(); err == nil {
		config.LoadEnvOverlay(wd)
	}

	configDir := resolveConfigDir()
	if settingsPath == "" {
		settingsPath = filepath.Join(configDir, "settings.yaml")
	}
	if historyPath == "" {
		historyPath = filepath.Join(configDir, "history")
	}

	logger.Info("Starting hostline", "version", version)

	h := host.New("hostline", host.Options{
		SettingsPath: settingsPath,
		HistoryPath:  historyPath,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	})

	for {
		line, accepted, err := h.EditLine("hostline> ", "")
		if err != nil {
			logger.Error("Session failed", "error", err)
			continue
		}
		if !accepted {
			fmt.Println()
			return
		}
		if strings.TrimSpace(line) == "exit" {
			return
		}
		if line == "" {
			continue
		}
		runLine(line)
	}
}

// runLine hands a committed line to the shell.
func runLine(line string) {
	cmd := exec.Command("sh", "-c", line)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			logger.Error("Command failed to start", "line", line, "error", err)
		}
	}
}

func resolveConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "hostline")
}
