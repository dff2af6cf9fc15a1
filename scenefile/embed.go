package scenefile

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Dir is where scenes and macros are looked up on disk before falling back
// to the embedded copies.
var Dir = "scenefile"

//go:embed macros/*.tengo
var MacrosFS embed.FS

func LoadMacro(name string) ([]byte, error) {
	clean := cleanMacroPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return MacrosFS.ReadFile(clean)
}

//go:embed scenes/*.yaml
var ScenesFS embed.FS

func Load(name string) ([]byte, error) {
	clean := cleanScenePath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScenesFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPath(cleanScenePath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// ScenesDir is the on-disk directory the sandbox watches.
func ScenesDir() string {
	return filepath.Join(Dir, "scenes")
}

func MacrosDir() string {
	return filepath.Join(Dir, "macros")
}

func cleanScenePath(path string) string {
	return cleanPath(path, "scenes")
}

func cleanMacroPath(path string) string {
	return cleanPath(path, "macros")
}

// cleanPath maps any of "x.yaml", "scenes/x.yaml", "scenefile/scenes/x.yaml"
// or a full disk path from a watcher event onto "scenes/x.yaml".
func cleanPath(path, sub string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", sub, filepath.Base(filepath.FromSlash(path)))
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
