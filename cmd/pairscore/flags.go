package main

import "github.com/urfave/cli/v3"

// options holds the flag values shared by the subcommands of one app.
type options struct {
	configPath      string
	logLevel        string
	logFormat       string
	debug           bool
	format          string
	tokenizerJSON   string
	tokenizerConfig string
	tensorName      string
}

func (o *options) loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default: user config dir)",
			Destination: &o.configPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &o.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &o.logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &o.debug,
		},
	}
}

func (o *options) outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "output format (text, json, yaml)",
			Value:       "text",
			Destination: &o.format,
		},
	}
}

func (o *options) tokenizerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tokenizer-json",
			Aliases:     []string{"tokenizer"},
			Usage:       "path to tokenizer.json",
			Destination: &o.tokenizerJSON,
		},
		&cli.StringFlag{
			Name:        "tokenizer-config",
			Usage:       "path to tokenizer_config.json (special token overrides)",
			Destination: &o.tokenizerConfig,
		},
	}
}

func (o *options) tensorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tensor-name",
			Usage:       "name of the id tensor inside a safetensors file",
			Value:       "input_ids",
			Destination: &o.tensorName,
		},
	}
}
