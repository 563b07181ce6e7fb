package api

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Fo-mal-Haut/MetroPlan/pkg/config"
	"github.com/Fo-mal-Haut/MetroPlan/pkg/dataset"
	"github.com/Fo-mal-Haut/MetroPlan/pkg/railgraph"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the itinerary planner web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: "",
						Usage: "listen target for the web server (overrides config)",
					},
					&cli.StringFlag{
						Name:  "config",
						Value: "config.yml",
						Usage: "path to the configuration file",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					listen := c.String("listen")
					if listen == "" {
						listen = cfg.Server.Listen
					}

					store := dataset.NewStore(dataset.Source{
						SchedulePath: cfg.Data.SchedulePath,
						GraphPath:    cfg.Data.GraphPath,
						Policy: railgraph.TransferPolicy{
							MinConnect: cfg.Data.MinConnect,
							MaxWait:    cfg.Data.MaxWait,
						},
					})

					if err := store.LoadWithRetry(2 * time.Minute); err != nil {
						return err
					}

					return SetupServer(listen, store, cfg)
				},
			},
		},
	}
}
