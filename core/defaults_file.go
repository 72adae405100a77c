package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultsFileName is the per-project defaults file looked up in the working
// directory when no explicit path is given.
const DefaultsFileName = "spritegen.yaml"

// Defaults holds optional per-project default values for the CLI flags.
// Nil pointer fields mean "not set"; set fields override the built-in
// defaults but are themselves overridden by explicit flags.
type Defaults struct {
	Model      *string  `yaml:"model"`
	Output     *string  `yaml:"output"`
	RemoveBG   *bool    `yaml:"remove_bg"`
	BGMode     *string  `yaml:"bg_mode"`
	KeyColor   *string  `yaml:"key_color"`
	Threshold  *int     `yaml:"threshold"`
	Similarity *float64 `yaml:"similarity"`
	Blend      *float64 `yaml:"blend"`
}

// LoadDefaults reads a YAML defaults file. A missing file is not an error
// and yields an empty Defaults; a malformed file is a ConfigError.
func LoadDefaults(path string) (*Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Defaults{}, nil
		}
		return nil, ErrConfigFile(path, err.Error())
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, ErrConfigFile(path, err.Error())
	}

	if d.BGMode != nil && *d.BGMode != "flood-fill" && *d.BGMode != "key" {
		return nil, ErrConfigFile(path, fmt.Sprintf("bg_mode must be \"flood-fill\" or \"key\", got %q", *d.BGMode))
	}

	return &d, nil
}
