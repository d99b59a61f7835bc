package driver

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig is the optional on-disk configuration for the outer
// multi-file driver (--config driver.yml), an alternative to repeating the
// same flags once per cobra invocation when a batch of files share the
// same engine settings.
type YAMLConfig struct {
	InputGlob   string `yaml:"input_glob"`
	OutputDir   string `yaml:"output_dir"`
	TempDirBase string `yaml:"temp_dir_base"`
	Concurrency int    `yaml:"concurrency"`
}

// LoadYAMLConfig parses path as a YAMLConfig.
func LoadYAMLConfig(path string) (YAMLConfig, error) {
	var cfg YAMLConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
