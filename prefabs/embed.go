// Package prefabs embeds the encounter tables and mechanic scripts. Files in
// the override directory on disk shadow the embedded copies so tables can be
// tuned without a rebuild.
package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var TablesFS embed.FS

var (
	overrideMu  sync.RWMutex
	overrideDir = "prefabs"
)

// SetOverrideDir changes where Load and LoadScript look on disk first. An
// empty dir disables the override.
func SetOverrideDir(dir string) {
	overrideMu.Lock()
	overrideDir = dir
	overrideMu.Unlock()
}

// OverrideDir returns the directory consulted before the embedded files.
func OverrideDir() string {
	overrideMu.RLock()
	defer overrideMu.RUnlock()
	return overrideDir
}

// Load returns the named table.
func Load(name string) ([]byte, error) {
	clean := cleanTablePath(name)
	if data, ok := readOverride(clean); ok {
		return data, nil
	}
	return TablesFS.ReadFile(clean)
}

// LoadScript returns the named script from scripts/.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, ok := readOverride(clean); ok {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

// Scripts lists the embedded script names, sorted.
func Scripts() []string {
	matches, err := fs.Glob(ScriptsFS, "scripts/*.tengo")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, path.Base(m))
	}
	sort.Strings(out)
	return out
}

// ModTime reports when the override copy of name last changed.
func ModTime(name string) (time.Time, bool) {
	dir := OverrideDir()
	if dir == "" {
		return time.Time{}, false
	}
	info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(cleanTablePath(name))))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func readOverride(clean string) ([]byte, bool) {
	dir := OverrideDir()
	if dir == "" || clean == "" {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(clean)))
	if err != nil {
		return nil, false
	}
	return data, true
}

func cleanTablePath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	s, _ = strings.CutPrefix(s, "prefabs/")
	return s
}

func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	for _, prefix := range []string{"prefabs/", "scripts/"} {
		s, _ = strings.CutPrefix(s, prefix)
	}
	if !strings.HasSuffix(s, ".tengo") {
		s += ".tengo"
	}
	return "scripts/" + s
}
