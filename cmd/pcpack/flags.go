package main

import (
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pcpacktool/internal/logger"
	"github.com/samcharles93/pcpacktool/pkg/pcpack"
)

func dictFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "dict",
		Aliases: []string{"d"},
		Usage:   "Hash dictionary file (0xHHHHHHHH name per line)",
	}
}

func alignFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "align",
		Usage: "Payload alignment in bytes",
		Value: pcpack.DefaultAlign,
	}
}

func logFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug|info|warn|error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: pretty|json",
		},
	}
}

// newLogger builds the command logger from flags and config defaults.
func newLogger(c *cli.Command, cfg Config) logger.Logger {
	level := c.String("log-level")
	if level == "" {
		level = cfg.LogLevel
	}
	format := c.String("log-format")
	if format == "" {
		format = cfg.LogFormat
	}
	if format == "json" {
		return logger.JSON(os.Stderr, logger.ParseLevel(level))
	}
	return logger.Pretty(os.Stderr, logger.ParseLevel(level))
}

// loadDict loads the dictionary named by the flag or config. A missing
// dictionary is not fatal: names fall back to their hex form.
func loadDict(c *cli.Command, cfg Config, log logger.Logger) *pcpack.Dictionary {
	path := c.String("dict")
	applyDictConfig(c, cfg, &path)
	if path == "" {
		return nil
	}
	dict, err := pcpack.LoadDictionary(path)
	if err != nil {
		log.Warn("hash dictionary not loaded", "path", path, "error", err)
		return nil
	}
	log.Info("hash dictionary loaded", "path", path, "entries", dict.Len())
	return dict
}
