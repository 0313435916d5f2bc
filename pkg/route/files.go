package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CacheFile is the compiled rule artifact name inside the runtime directory.
const CacheFile = "route.json"

// LoadFiles reads rule files in order. Each name gets ext appended; missing
// files are skipped.
func LoadFiles(fsys fs.FS, names []string, ext string) ([]Rule, error) {
	var rules []Rule
	for _, name := range names {
		file := name + ext
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%w: %s: %w", ErrParseRules, file, err)
		}

		var list []Rule
		if err := yaml.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrParseRules, file, err)
		}
		rules = append(rules, list...)
	}
	return rules, nil
}

// CachePath returns the compiled artifact path for a runtime directory.
func CachePath(runtimeDir string) string {
	return filepath.Join(runtimeDir, CacheFile)
}

// CacheExists reports whether the compiled artifact is present.
func CacheExists(runtimeDir string) bool {
	_, err := os.Stat(CachePath(runtimeDir))
	return err == nil
}

// ReadCache loads the compiled artifact.
func ReadCache(runtimeDir string) ([]Rule, error) {
	data, err := os.ReadFile(CachePath(runtimeDir))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCache, err)
	}
	var rules []Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCache, err)
	}
	return rules, nil
}

// WriteCache stores rules as the compiled artifact, replacing any previous
// one atomically. Code-only rules are left out.
func WriteCache(runtimeDir string, rules []Rule) error {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Handler != nil || r.Callable != nil {
			continue
		}
		out = append(out, r)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteCache, err)
	}
	if err := os.MkdirAll(runtimeDir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteCache, err)
	}

	tmp, err := os.CreateTemp(runtimeDir, CacheFile+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteCache, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrWriteCache, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteCache, err)
	}
	if err := os.Rename(tmp.Name(), CachePath(runtimeDir)); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteCache, err)
	}
	return nil
}

// ClearCache removes the compiled artifact. A missing file is not an error.
func ClearCache(runtimeDir string) error {
	if err := os.Remove(CachePath(runtimeDir)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
