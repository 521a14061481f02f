package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pcpacktool/pkg/pcpack"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Extract every resource from a container into a folder",
		Flags: append(logFlags(),
			&cli.StringFlag{
				Name:     "pack",
				Aliases:  []string{"in"},
				Usage:    "Input .PCPACK file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: pack name without extension)",
			},
			dictFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			log := newLogger(cmd, cfg)
			dict := loadDict(cmd, cfg, log)

			packPath := cmd.String("pack")
			outDir := cmd.String("out")
			if outDir == "" {
				base := filepath.Base(packPath)
				outDir = strings.TrimSuffix(base, filepath.Ext(base))
			}

			p, err := pcpack.Open(packPath)
			if err != nil {
				return fmt.Errorf("parse %s: %w", packPath, err)
			}
			defer func() { _ = p.Close() }()

			log.Info("container parsed",
				"pack", packPath,
				"directory_offset", fmt.Sprintf("0x%X", p.Header.DirectoryOffset),
				"payload_base", fmt.Sprintf("0x%X", p.Header.PayloadBase),
				"resources", len(p.Resources),
			)

			rep, err := pcpack.ExtractAll(p, dict, outDir)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			for _, w := range rep.Warnings {
				log.Warn("resource skipped", "index", w.Index, "name", w.Name, "reason", w.Reason)
			}
			log.Info("export complete",
				"extracted", rep.Extracted,
				"skipped", len(rep.Warnings),
				"manifest", rep.ManifestPath,
			)
			return nil
		},
	}
}
