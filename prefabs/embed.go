package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed *.yaml
var specFS embed.FS

// Load reads a spec file by name. An on-disk copy under dir (when set via
// SetOverrideDir) wins over the embedded copy so live tuning works without a
// rebuild.
func Load(filename string) ([]byte, error) {
	if overrideDir != "" {
		path := filepath.Join(overrideDir, filepath.Base(filename))
		if data, err := os.ReadFile(path); err == nil {
			return data, nil
		}
	}
	data, err := specFS.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("prefabs: read %s: %w", filename, err)
	}
	return data, nil
}

var overrideDir string

// SetOverrideDir points Load at an on-disk spec directory for hot reload.
func SetOverrideDir(dir string) {
	overrideDir = dir
}
