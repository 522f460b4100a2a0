// Copyright the caracal authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the analyzer's YAML configuration and provides the
// leveled logging used across the analyses.
package config

import (
	"fmt"
	"os"

	"github.com/gmh5225/caracal/internal/funcutil"
	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config is the analyzer configuration. Fields absent from the YAML file
// keep their zero value; NewDefault fills the ones that need one.
type Config struct {
	Options

	sourceFile string
}

// Options is the block of settings shared by every command.
type Options struct {
	// LogLevel controls the verbosity, from ErrLevel (1) to TraceLevel (5).
	LogLevel int `yaml:"log-level"`

	// NumRoutines is the number of goroutines analyzing functions in
	// parallel. Zero or negative means sequential.
	NumRoutines int `yaml:"num-routines"`

	// Detectors restricts which detectors run. Empty means all registered
	// detectors.
	Detectors []string `yaml:"detectors"`

	// ReportsDir is the directory where CFG dot files and reports are
	// written. Empty means the working directory.
	ReportsDir string `yaml:"reports-dir"`
}

// NewDefault returns the configuration used when no file is given.
func NewDefault() *Config {
	return &Config{
		Options: Options{
			LogLevel:    int(InfoLevel),
			NumRoutines: 1,
		},
	}
}

// Load reads a config from a YAML file.
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %s: %w", filename, err)
	}
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file %s: %w", filename, err)
	}
	cfg.sourceFile = filename
	if cfg.LogLevel < int(ErrLevel) || cfg.LogLevel > int(TraceLevel) {
		return nil, fmt.Errorf("log-level %d out of range [%d, %d]", cfg.LogLevel, ErrLevel, TraceLevel)
	}
	return cfg, nil
}

// SourceFile returns the file this config was loaded from, empty for the
// default config.
func (c *Config) SourceFile() string { return c.sourceFile }

// RunsDetector reports whether the named detector is enabled.
func (c *Config) RunsDetector(name string) bool {
	return len(c.Detectors) == 0 || funcutil.Contains(c.Detectors, name)
}
