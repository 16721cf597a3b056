package feature

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/larkdocs/pkg/errors"
)

// Load reads a feature tree from a YAML or JSON file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.File = filepath.Base(path)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a feature tree. JSON input is accepted since it is valid
// YAML. Unknown keys are rejected so that typos do not silently fall back
// to provider defaults.
func Parse(data []byte) (*Config, error) {
	format := "yaml"
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		format = "json"
	}

	var cfg Config
	if len(bytes.TrimSpace(data)) == 0 {
		return &cfg, nil
	}
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return nil, &errors.ParseError{
			Format:  format,
			Message: firstLine(err.Error()),
			Err:     err,
		}
	}
	return &cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	data, err := yaml.MarshalWithOptions(cfg, yaml.Indent(2))
	if err != nil {
		return nil, fmt.Errorf("marshal feature config: %w", err)
	}
	return data, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
