package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// App holds the application configuration flags (form option lists)
type App struct {
	configPath string
}

func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML app config overriding the form option lists",
			Sources:     cli.EnvVars("SAFESIGHT_CONFIG"),
			Destination: &a.configPath,
		},
	}
}

// Configure returns the form options: built-in defaults, overridden by the
// TOML config when one is given. Lists present in the file replace the
// default list wholesale.
func (a *App) Configure() (*model.FormOptions, error) {
	opts := model.DefaultFormOptions()
	if a.configPath == "" {
		return opts, nil
	}

	data, err := os.ReadFile(a.configPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read app config", goerr.V("path", a.configPath))
	}

	var loaded model.FormOptions
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return nil, goerr.Wrap(err, "failed to parse app config", goerr.V("path", a.configPath))
	}

	if len(loaded.Categories) > 0 {
		opts.Categories = loaded.Categories
	}
	if len(loaded.Locations) > 0 {
		opts.Locations = loaded.Locations
	}
	if len(loaded.PrimaryClassifications) > 0 {
		opts.PrimaryClassifications = loaded.PrimaryClassifications
	}
	if len(loaded.RiskLevels) > 0 {
		opts.RiskLevels = loaded.RiskLevels
	}
	if len(loaded.Severities) > 0 {
		opts.Severities = loaded.Severities
	}
	if len(loaded.InjuryCategories) > 0 {
		opts.InjuryCategories = loaded.InjuryCategories
	}
	if len(loaded.ActionTimings) > 0 {
		opts.ActionTimings = loaded.ActionTimings
	}
	if loaded.MaxActionsPerSubmission > 0 {
		opts.MaxActionsPerSubmission = loaded.MaxActionsPerSubmission
	}

	return opts, nil
}
