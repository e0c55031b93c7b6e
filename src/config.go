package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	Per-experiment settings records, persisted as
 *		human-editable YAML, one file per DUT.
 *
 *		A missing file is created from the built-in defaults.
 *		A file whose top-level keys diverge from the defaults is
 *		rejected, so stale configs surface instead of silently
 *		filling with zero values.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ConfigStore reads and writes settings records below one base directory.
// The directory is injected; the store never goes looking for project
// markers on its own.
type ConfigStore struct {
	Dir string
}

// Load reads the record name (without extension) into out, writing defaults
// first if the file does not exist.  defaults and out are the same settings
// type; defaults stays untouched.
func (c ConfigStore) Load(name string, defaults, out any) error {
	path := filepath.Join(c.Dir, name+".yaml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := c.write(path, defaults); err != nil {
			return err
		}
		Logger.Info("created new settings file", "path", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read settings %s: %w", path, err)
	}

	if err := checkSchema(raw, defaults, path); err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse settings %s: %w", path, err)
	}
	return nil
}

func (c ConfigStore) write(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	return nil
}

// checkSchema compares the top-level keys of the stored file with those the
// defaults would produce.
func checkSchema(raw []byte, defaults any, path string) error {
	var stored map[string]any
	if err := yaml.Unmarshal(raw, &stored); err != nil {
		return fmt.Errorf("parse settings %s: %w", path, err)
	}

	ref, err := yaml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("encode defaults: %w", err)
	}
	var want map[string]any
	if err := yaml.Unmarshal(ref, &want); err != nil {
		return fmt.Errorf("decode defaults: %w", err)
	}

	if !sameKeys(stored, want) {
		return fmt.Errorf("%s keys %v, expected %v: %w", path, keysOf(stored), keysOf(want), ErrConfigSchema)
	}
	return nil
}

func keysOf(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sameKeys(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
