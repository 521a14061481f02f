package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pcpacktool/internal/logger"
	"github.com/samcharles93/pcpacktool/pkg/pcpack"
)

func rebuildCmd() *cli.Command {
	return &cli.Command{
		Name:  "rebuild",
		Usage: "Rebuild a container, replacing payloads from a folder (original order preserved)",
		Flags: append(logFlags(),
			&cli.StringFlag{
				Name:     "pack",
				Aliases:  []string{"in"},
				Usage:    "Original .PCPACK file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Folder with replacement payload files",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "Output .PCPACK path",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "in-place",
				Usage: "Overwrite payload bytes at original offsets; every replacement must match the original size",
			},
			alignFlag(),
			dictFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			log := newLogger(cmd, cfg).With("op", uuid.NewString())

			strategy := pcpack.StrategyFixed
			if cmd.Bool("in-place") {
				strategy = pcpack.StrategyInPlace
			}
			return runRebuild(cmd, cfg, log, strategy)
		},
	}
}

func syncCmd() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Rebuild a container from a folder, adding new resources and re-sorting the directory",
		Flags: append(logFlags(),
			&cli.StringFlag{
				Name:     "pack",
				Aliases:  []string{"in"},
				Usage:    "Original .PCPACK file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Folder to sync resources from",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "Output .PCPACK path",
				Required: true,
			},
			alignFlag(),
			dictFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			log := newLogger(cmd, cfg).With("op", uuid.NewString())
			return runRebuild(cmd, cfg, log, pcpack.StrategyFullSync)
		},
	}
}

func runRebuild(cmd *cli.Command, cfg Config, log logger.Logger, strategy pcpack.Strategy) error {
	packPath := cmd.String("pack")
	outPath := cmd.String("out")
	align := cmd.Int("align")
	applyAlignConfig(cmd, cfg, &align)
	dict := loadDict(cmd, cfg, log)

	p, err := pcpack.Open(packPath)
	if err != nil {
		return fmt.Errorf("parse %s: %w", packPath, err)
	}
	defer func() { _ = p.Close() }()

	out, rep, err := pcpack.Rebuild(p, pcpack.RebuildOptions{
		InputDir: cmd.String("input"),
		Dict:     dict,
		Strategy: strategy,
		Align:    align,
	})
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	for _, w := range rep.Warnings {
		log.Warn("resource warning", "index", w.Index, "name", w.Name, "reason", w.Reason)
	}

	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	log.Info("rebuild complete",
		"strategy", strategy.String(),
		"output", outPath,
		"size", rep.FileSize,
		"payload_base", fmt.Sprintf("0x%X", rep.PayloadBase),
		"updated", rep.Updated,
		"added", rep.Added,
		"kept", rep.Kept,
		"skipped", rep.Skipped,
	)
	return nil
}
