package main

import (
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/iancoleman/strcase"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/sturgmap/sturgmap/internal/config"
	"github.com/sturgmap/sturgmap/internal/server"
)

const (
	CONFIG         string = `config`
	LOGLEVEL       string = `logLevel`
	LOGFORMAT      string = `logFormat`
	CENTERLAT      string = `centerLat`
	CENTERLON      string = `centerLon`
	ZOOM           string = `zoom`
	BINS           string = `bins`
	PREVIEWMAXSIZE string = `previewMaxSize`
	OUTPUTDIR      string = `outputDir`
	envPrefix      string = `sturgmap_`
)

// envVars derives the environment variable for a flag, e.g. logLevel -> STURGMAP_LOG_LEVEL.
func envVars(flag string) []string {
	return []string{strcase.ToScreamingSnake(envPrefix + flag)}
}

func main() {
	defaults := config.Default()

	app := cli.NewApp()
	app.Name = "sturgmap-mcp"
	app.Usage = "MCP server for raster analysis and interactive web maps"
	app.Description = "Communicates via the MCP protocol over stdin/stdout. Configure it in your MCP client."
	app.Version = versioninfo.Short()

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    CONFIG,
			Aliases: []string{"c"},
			Usage:   "JSON config file; flags and environment variables override it",
			EnvVars: envVars(CONFIG),
		},
		&cli.StringFlag{
			Name:    LOGLEVEL,
			Usage:   "trace, debug, info, warn, error or disabled",
			Value:   defaults.LogLevel,
			EnvVars: envVars(LOGLEVEL),
		},
		&cli.StringFlag{
			Name:    LOGFORMAT,
			Usage:   "console or json",
			Value:   defaults.LogFormat,
			EnvVars: envVars(LOGFORMAT),
		},
		&cli.Float64Flag{
			Name:    CENTERLAT,
			Usage:   "Initial map center latitude",
			Value:   defaults.CenterLat,
			EnvVars: envVars(CENTERLAT),
		},
		&cli.Float64Flag{
			Name:    CENTERLON,
			Usage:   "Initial map center longitude",
			Value:   defaults.CenterLon,
			EnvVars: envVars(CENTERLON),
		},
		&cli.IntFlag{
			Name:    ZOOM,
			Aliases: []string{"z"},
			Usage:   "Initial map zoom level (0-22)",
			Value:   defaults.Zoom,
			EnvVars: envVars(ZOOM),
		},
		&cli.IntFlag{
			Name:    BINS,
			Usage:   "Default histogram bin count",
			Value:   defaults.Bins,
			EnvVars: envVars(BINS),
		},
		&cli.IntFlag{
			Name:    PREVIEWMAXSIZE,
			Usage:   "Longest side of rendered previews and map overlays in pixels",
			Value:   defaults.PreviewMaxSize,
			EnvVars: envVars(PREVIEWMAXSIZE),
		},
		&cli.StringFlag{
			Name:    OUTPUTDIR,
			Aliases: []string{"o"},
			Usage:   "Directory for relative output paths",
			Value:   defaults.OutputDir,
			EnvVars: envVars(OUTPUTDIR),
		},
	}

	app.Action = func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}

		// stdout carries the protocol, so logs go to stderr
		logger, err := cfg.Logger(os.Stderr)
		if err != nil {
			return err
		}
		log.Logger = logger
		log.Info().Str("version", versioninfo.Short()).Str("output_dir", cfg.OutputDir).Msg("starting sturgmap-mcp")

		srv := server.New(cfg, versioninfo.Short())
		defer srv.Close()
		return srv.Run()
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

// loadConfig starts from the config file, if any, and applies every flag
// that was set explicitly or through its environment variable.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String(CONFIG); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if c.IsSet(LOGLEVEL) {
		cfg.LogLevel = c.String(LOGLEVEL)
	}
	if c.IsSet(LOGFORMAT) {
		cfg.LogFormat = c.String(LOGFORMAT)
	}
	if c.IsSet(CENTERLAT) {
		cfg.CenterLat = c.Float64(CENTERLAT)
	}
	if c.IsSet(CENTERLON) {
		cfg.CenterLon = c.Float64(CENTERLON)
	}
	if c.IsSet(ZOOM) {
		cfg.Zoom = c.Int(ZOOM)
	}
	if c.IsSet(BINS) {
		cfg.Bins = c.Int(BINS)
	}
	if c.IsSet(PREVIEWMAXSIZE) {
		cfg.PreviewMaxSize = c.Int(PREVIEWMAXSIZE)
	}
	if c.IsSet(OUTPUTDIR) {
		cfg.OutputDir = c.String(OUTPUTDIR)
	}
	return cfg, cfg.Validate()
}
