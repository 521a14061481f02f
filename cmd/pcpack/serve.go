package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pcpacktool/internal/packserve"
	"github.com/samcharles93/pcpacktool/pkg/pcpack"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a container's resources over a read-only HTTP API",
		Flags: append(logFlags(),
			&cli.StringFlag{
				Name:     "pack",
				Aliases:  []string{"in"},
				Usage:    "Input .PCPACK file",
				Required: true,
			},
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			dictFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			log := newLogger(cmd, cfg)
			dict := loadDict(cmd, cfg, log)
			applyServeConfig(cmd, cfg, &addr)

			p, err := pcpack.Open(cmd.String("pack"))
			if err != nil {
				return fmt.Errorf("parse %s: %w", cmd.String("pack"), err)
			}
			defer func() { _ = p.Close() }()

			server := packserve.New(p, dict, log)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", addr, "pack", cmd.String("pack"), "resources", len(p.Resources))
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
