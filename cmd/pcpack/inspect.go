package main

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pcpacktool/pkg/pcpack"
)

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Print a container's directory geometry and resource list",
		Flags: append(logFlags(),
			&cli.StringFlag{
				Name:     "pack",
				Aliases:  []string{"in"},
				Usage:    "Input .PCPACK file",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Emit machine-readable JSON",
			},
			&cli.BoolFlag{
				Name:  "resources",
				Usage: "List every resource entry",
			},
			dictFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			log := newLogger(cmd, cfg)
			dict := loadDict(cmd, cfg, log)

			p, err := pcpack.Open(cmd.String("pack"))
			if err != nil {
				return fmt.Errorf("parse %s: %w", cmd.String("pack"), err)
			}
			defer func() { _ = p.Close() }()

			summary := pcpack.Summarize(p)

			if cmd.Bool("json") {
				out := struct {
					pcpack.Summary
					Resources []pcpack.ResourceInfo `json:"resources,omitempty"`
				}{Summary: summary}
				if cmd.Bool("resources") {
					out.Resources = pcpack.ResourceInfos(p, dict)
				}
				b, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(b))
				return nil
			}

			fmt.Printf("file size:        %d (0x%X)\n", summary.FileSize, summary.FileSize)
			fmt.Printf("directory offset: 0x%X\n", summary.DirectoryOffset)
			fmt.Printf("payload base:     0x%X\n", summary.PayloadBase)
			fmt.Printf("pack slot:        %d\n", summary.PackSlot)
			fmt.Printf("parents:          %d\n", summary.Parents)
			fmt.Printf("resources:        %d\n", summary.Resources)
			for _, tl := range summary.TypeLists {
				if tl.Count == 0 {
					continue
				}
				fmt.Printf("  %-14s %d\n", tl.Kind, tl.Count)
			}
			if len(summary.Types) > 0 {
				fmt.Println("type ranges:")
				for _, ts := range summary.Types {
					fmt.Printf("  %2d %-18s start=%-5d count=%d\n", ts.Type, ts.Extension, ts.Start, ts.Count)
				}
			}
			if cmd.Bool("resources") {
				for _, info := range pcpack.ResourceInfos(p, dict) {
					fmt.Printf("[%d] %s (%s, 0x%X bytes at 0x%X)\n",
						info.Index, info.Name, info.Hash, info.Size, info.Offset)
				}
			}
			return nil
		},
	}
}
