package main

import (
	"github.com/urfave/cli/v3"
)

var (
	configFile string
	filePath   string
	opts       = settings{logLevel: "info", logFormat: "pretty", nativeOrder: "big"}
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to a YAML config file (default: $XDG_CONFIG_HOME/matdump/config.yaml)",
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &opts.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &opts.logFormat,
		},
		&cli.StringFlag{
			Name:        "native-order",
			Usage:       "byte order in which the endian indicator reads MI (big, little)",
			Value:       "big",
			Destination: &opts.nativeOrder,
		},
		&cli.BoolFlag{
			Name:        "unpadded-compressed",
			Usage:       "do not pad top-level compressed elements (MATLAB layout)",
			Destination: &opts.unpaddedCompressed,
		},
		&cli.BoolFlag{
			Name:        "continue-on-error",
			Usage:       "skip top-level elements that fail to decode",
			Destination: &opts.continueOnError,
		},
	}
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to .mat file",
		Destination: &filePath,
		Required:    true,
	}
}
