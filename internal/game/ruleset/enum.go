// Package ruleset defines the closed vocabularies the melee engine reasons
// about (elements, brands, attack flavours, skills, forms, mutations) and the
// species definitions loaded from YAML.
package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// enumName returns names[v] or a placeholder for out-of-range values.
func enumName(kind string, names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("%s(%d)", kind, v)
	}
	return names[v]
}

// parseEnum maps a content-file name to its index in names.
func parseEnum(kind string, names []string, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

func decodeEnum(value *yaml.Node, kind string, names []string) (int, error) {
	var s string
	if err := value.Decode(&s); err != nil {
		return 0, fmt.Errorf("decoding %s: %w", kind, err)
	}
	return parseEnum(kind, names, s)
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
