package main

import (
	"github.com/fatih/color"
	"github.com/panbanda/cyclo/internal/output"
	"github.com/panbanda/cyclo/pkg/config"
	"github.com/urfave/cli/v2"
)

// loadConfig resolves the effective config: the --config flag (or
// CYCLO_CONFIG) names an explicit file, otherwise the standard search
// locations apply.
func loadConfig(c *cli.Context) *config.Config {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			color.Red("Error: %v", err)
			color.Yellow("Falling back to default configuration")
			return config.DefaultConfig()
		}
		return cfg
	}
	return config.LoadOrDefault()
}

// sinkPath resolves where output goes. The records sink defaults to the
// configured path (output.cy); other formats default to stdout so tables
// and structured renderings land in the terminal unless redirected.
func sinkPath(c *cli.Context, cfg *config.Config, format output.Format) string {
	if c.IsSet("output") {
		return c.String("output")
	}
	if format == output.FormatRecords {
		return cfg.Output.Path
	}
	return "-"
}
