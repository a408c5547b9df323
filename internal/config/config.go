// Package config loads the optional multi-target build manifest
// accepted by "minic -c FILE", letting one invocation drive several
// compiles: each target names its own input, output, and debug
// setting.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Target describes a single compile: where the source comes from,
// where the IR goes, and whether debug comments/dumps are enabled
// for that compile.
type Target struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Debug  bool   `yaml:"debug"`
}

// Manifest is the top-level shape of a build-config YAML file: a
// named list of Targets.
type Manifest struct {
	Targets []Target `yaml:"targets"`
}

// Load reads and parses a build manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if len(m.Targets) == 0 {
		return nil, fmt.Errorf("config: %s declares no targets", path)
	}

	for i, t := range m.Targets {
		if t.Input == "" {
			return nil, fmt.Errorf("config: target %d is missing an input path", i)
		}
		if t.Output == "" {
			return nil, fmt.Errorf("config: target %d is missing an output path", i)
		}
	}

	return &m, nil
}
