package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the persisted configuration file inside the
// per-user configuration directory.
const FileName = "config.yaml"

// Namespace is the hierarchical configuration consumed by the whole
// application. Keys are addressed by dotted paths ("section.key"); a bare
// key lives at the top level. Precedence is established by call order:
// declared defaults are registered first, the persisted file is loaded over
// them, and command-line overrides are merged last.
type Namespace struct {
	data map[string]any
}

// New returns an empty namespace.
func New() *Namespace {
	return &Namespace{data: make(map[string]any)}
}

// Set stores a value under the given dotted path, creating intermediate
// sections as needed. Existing values are overwritten.
func (n *Namespace) Set(path string, value any) {
	parts := strings.Split(path, ".")
	m := n.data
	for _, p := range parts[:len(parts)-1] {
		child, ok := m[p].(map[string]any)
		if !ok {
			child = make(map[string]any)
			m[p] = child
		}
		m = child
	}
	m[parts[len(parts)-1]] = value
}

// SetDefault stores a value only if the path is not already set.
func (n *Namespace) SetDefault(path string, value any) {
	if _, ok := n.Get(path); !ok {
		n.Set(path, value)
	}
}

// Get returns the value at the given dotted path.
func (n *Namespace) Get(path string) (any, bool) {
	parts := strings.Split(path, ".")
	m := n.data
	for _, p := range parts[:len(parts)-1] {
		child, ok := m[p].(map[string]any)
		if !ok {
			return nil, false
		}
		m = child
	}
	v, ok := m[parts[len(parts)-1]]
	return v, ok
}

// String returns the string at path, or "" when unset or not a string.
func (n *Namespace) String(path string) string {
	v, ok := n.Get(path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Bool returns the boolean at path, or false when unset.
func (n *Namespace) Bool(path string) bool {
	v, ok := n.Get(path)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Int returns the integer at path, coercing the numeric representations
// produced by the YAML decoder and the flag parser. Unset paths yield 0.
func (n *Namespace) Int(path string) int {
	v, ok := n.Get(path)
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	default:
		return 0
	}
}

// Float returns the float at path, or 0 when unset.
func (n *Namespace) Float(path string) float64 {
	v, ok := n.Get(path)
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	default:
		return 0
	}
}

// Strings returns the string sequence at path. YAML decodes sequences as
// []any, so both representations are accepted.
func (n *Namespace) Strings(path string) []string {
	v, ok := n.Get(path)
	if !ok {
		return nil
	}
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// LoadFile merges the YAML file at path into the namespace. File values
// overwrite values already present (declared defaults).
func (n *Namespace) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var loaded map[string]any
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}
	merge(n.data, loaded)
	return nil
}

// WriteFile persists the namespace as YAML, creating parent directories.
func (n *Namespace) WriteFile(path string) error {
	data, err := yaml.Marshal(n.data)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// EnsureFile writes the current namespace to path if no file exists there
// yet. It reports whether a file was created. Called before command-line
// overrides are merged, so session-only overrides are never persisted.
func (n *Namespace) EnsureFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}
	if err := n.WriteFile(path); err != nil {
		return false, err
	}
	return true, nil
}

// DefaultPath returns the per-user location of the persisted configuration.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "scango", FileName), nil
}

func merge(dst, src map[string]any) {
	for k, v := range src {
		if sv, ok := v.(map[string]any); ok {
			if dv, ok := dst[k].(map[string]any); ok {
				merge(dv, sv)
				continue
			}
		}
		dst[k] = v
	}
}
