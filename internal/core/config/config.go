// Package config handles configuration loading and validation for reelflow.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/studioops/reelflow/internal/core/task"
	"github.com/studioops/reelflow/internal/core/workflow"
)

// Config holds the application configuration.
type Config struct {
	// Department is the workflow's own department.
	Department string `yaml:"department"`
	// ApprovalDepartment is where tasks are routed for client approval.
	ApprovalDepartment string `yaml:"approval_department"`
	// HeadRole is this department's head sentinel, e.g. "Video Head".
	HeadRole string `yaml:"head_role"`
	// Operator is the logged-in identity used for my-tasks matching.
	Operator string `yaml:"operator"`
	// AuthorizedCreators are glob patterns matched against a task's
	// assignedBy to recognize authorized creators.
	AuthorizedCreators []string `yaml:"authorized_creators"`
	// HeadRoles lists every department head role for the extra view.
	HeadRoles []string `yaml:"head_roles"`
	// Listen is the HTTP API bind address.
	Listen string `yaml:"listen"`
	// DataDir is set by the caller, not from the config file.
	DataDir string `yaml:"-"`
}

// Default returns the built-in configuration for a video department.
func Default() *Config {
	return &Config{
		Department:         string(task.DeptVideo),
		ApprovalDepartment: string(task.DeptSocialMedia),
		HeadRole:           "Video Head",
		Operator:           "Video Head",
		AuthorizedCreators: []string{
			"Admin",
			"Operations Head",
			"Video Head",
			"Graphics Head",
			"Social Media Manager",
		},
		HeadRoles: []string{
			"Video Head",
			"Graphics Head",
			"Social Media Head",
		},
		Listen: "127.0.0.1:8460",
	}
}

// Load reads configuration from path, layered over defaults. A missing file
// is not an error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Rules derives the workflow policy value from the configuration.
func (c *Config) Rules() workflow.Rules {
	return workflow.Rules{
		Department:         task.Department(c.Department),
		ApprovalDepartment: task.Department(c.ApprovalDepartment),
		HeadRole:           c.HeadRole,
		CreatorPatterns:    c.AuthorizedCreators,
		HeadRoles:          c.HeadRoles,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "reelflow.yml"
	}
	return filepath.Join(dir, "reelflow", "config.yml")
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".reelflow"
	}
	return filepath.Join(dir, ".reelflow")
}
