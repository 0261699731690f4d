package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/studioops/reelflow/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "reelflow config validate [options]",
				Description: "Validates the configuration file, checking required fields, creator patterns, and the data directory.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type validationResult struct {
	Valid  bool              `json:"valid"`
	Errors []validationError `json:"errors,omitempty"`
}

type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	err := cmd.flags.Config.ValidateDeep()

	result := validationResult{Valid: err == nil}
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			result.Errors = append(result.Errors, validationError{
				Field:   fe.Field,
				Message: fe.Err.Error(),
			})
		}
	} else if err != nil {
		result.Errors = append(result.Errors, validationError{Field: "config", Message: err.Error()})
	}

	out := c.Root().Writer

	if cmd.format == "json" {
		if encodeErr := iojson.WriteLine(out, result); encodeErr != nil {
			return encodeErr
		}
	} else if result.Valid {
		fmt.Fprintln(out, "configuration is valid")
	} else {
		for _, ve := range result.Errors {
			fmt.Fprintf(out, "%s: %s\n", ve.Field, ve.Message)
		}
	}

	if !result.Valid {
		return fmt.Errorf("configuration is invalid")
	}
	return nil
}
