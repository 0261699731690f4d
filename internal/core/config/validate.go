package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
)

// Validate performs structural validation of the configuration. All field
// problems are collected into a single criterio error.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("department", c.Department, required),
		criterio.Run("approval_department", c.ApprovalDepartment, required),
		criterio.Run("head_role", c.HeadRole, required),
		criterio.Run("operator", c.Operator, required),
		criterio.Run("listen", c.Listen, required),
		c.validateCreatorPatterns(),
		c.validateViewModes(),
	)
}

// ValidateDeep runs Validate plus I/O checks against the data directory.
func (c *Config) ValidateDeep() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func required(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

// validateCreatorPatterns checks every allow-list entry is a valid glob.
func (c *Config) validateCreatorPatterns() error {
	if len(c.AuthorizedCreators) == 0 {
		return criterio.NewFieldErrors("authorized_creators", fmt.Errorf("at least one creator pattern is required"))
	}

	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.AuthorizedCreators {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("authorized_creators[%d]", i), fmt.Errorf("invalid pattern %q", pattern))
		}
	}
	return errs.ToError()
}

// validateViewModes is a self-check that the configured department strings
// round-trip through the workflow policy. It guards against yaml files that
// leave the rules unusable rather than merely unusual.
func (c *Config) validateViewModes() error {
	rules := c.Rules()
	if rules.Department == rules.ApprovalDepartment {
		return criterio.NewFieldErrors("approval_department", fmt.Errorf("must differ from department"))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or absent.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
