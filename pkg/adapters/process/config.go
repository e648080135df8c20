package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ToolConfig declares one external program a script may invoke as a command.
type ToolConfig struct {
	// Name becomes the command type in scripts.
	Name string `yaml:"name" json:"name"`

	// Command is the program to execute, resolved through PATH.
	Command string `yaml:"command" json:"command"`

	// Args are fixed arguments. Script props never become arguments; they
	// reach the program as environment variables.
	Args []string `yaml:"args" json:"args"`

	// Env adds static environment entries to the program's environment.
	Env map[string]string `yaml:"env" json:"env"`

	// Description documents the tool for catalogs and validation output.
	Description string `yaml:"description" json:"description"`

	// Timeout caps the run, in seconds. Zero means no cap beyond the
	// caller's context.
	Timeout float64 `yaml:"timeout" json:"timeout"`
}

type toolsFile struct {
	Tools []ToolConfig `yaml:"tools" json:"tools"`
}

// LoadTools reads a tool declaration file (YAML, or JSON for a .json path)
// and returns the tools keyed by name. A missing file means no tools are
// configured and returns an empty map; entries without a name are skipped.
func LoadTools(path string) (map[string]ToolConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]ToolConfig{}, nil
		}
		return nil, fmt.Errorf("read tools config: %w", err)
	}

	var cfg toolsFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	tools := make(map[string]ToolConfig, len(cfg.Tools))
	for _, tool := range cfg.Tools {
		if tool.Name == "" {
			continue
		}
		tools[tool.Name] = tool
	}
	return tools, nil
}
