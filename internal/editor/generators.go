package editor

import (
	"os"
	"path/filepath"
	"strings"

	"hostline/pkg/shelltypes"
)

// FileMatchGenerator completes filesystem paths. It is the lowest-priority
// generator in the standard pipeline, consulted after script generators.
type FileMatchGenerator struct{}

// NewFileMatchGenerator creates the filesystem fallback generator.
func NewFileMatchGenerator() *FileMatchGenerator {
	return &FileMatchGenerator{}
}

// Name identifies the generator in logs.
func (g *FileMatchGenerator) Name() string {
	return "file"
}

// GenerateMatches lists the directory implied by the word under completion
// and returns its entries as candidates, directories suffixed with the path
// separator.
func (g *FileMatchGenerator) GenerateMatches(ctx shelltypes.MatchContext) []string {
	dirPart := ""
	if idx := strings.LastIndexByte(ctx.Word, '/'); idx != -1 {
		dirPart = ctx.Word[:idx+1]
	}

	searchDir := dirPart
	if searchDir == "" {
		searchDir = "."
	}

	entries, err := os.ReadDir(searchDir)
	if err != nil {
		return nil
	}

	var candidates []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(filepath.Base(ctx.Word), ".") {
			continue
		}
		candidate := dirPart + name
		if entry.IsDir() {
			candidate += "/"
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}
