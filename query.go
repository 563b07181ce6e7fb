package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kr/pretty"
	"github.com/urfave/cli/v2"

	"github.com/Fo-mal-Haut/MetroPlan/pkg/config"
	"github.com/Fo-mal-Haut/MetroPlan/pkg/dataset"
	"github.com/Fo-mal-Haut/MetroPlan/pkg/pathfinder"
	"github.com/Fo-mal-Haut/MetroPlan/pkg/railgraph"
)

// queryCommand is a one-off itinerary lookup against the loaded snapshot,
// printing the same payload the HTTP surface returns.
//
// Exit codes: 0 success, 1 validation error, 2 data load error, 3 internal.
func queryCommand() *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "Find itineraries between two stations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "start", Required: true, Usage: "start station name"},
			&cli.StringFlag{Name: "end", Required: true, Usage: "end station name"},
			&cli.IntFlag{Name: "max-transfers", Value: pathfinder.HardMaxTransfers, Usage: "maximum transfer count (0-2)"},
			&cli.IntFlag{Name: "window", Value: 120, Usage: "time window in minutes over the fastest itinerary"},
			&cli.BoolFlag{Name: "allow-same-station", Usage: "allow consecutive transfers at the same station"},
			&cli.BoolFlag{Name: "debug-dump", Usage: "pretty-print the response instead of JSON"},
			&cli.StringFlag{Name: "config", Value: "config.yml", Usage: "path to the configuration file"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			store := dataset.NewStore(dataset.Source{
				SchedulePath: cfg.Data.SchedulePath,
				GraphPath:    cfg.Data.GraphPath,
				Policy: railgraph.TransferPolicy{
					MinConnect: cfg.Data.MinConnect,
					MaxWait:    cfg.Data.MaxWait,
				},
			})
			if err := store.Load(); err != nil {
				return cli.Exit(err.Error(), 2)
			}

			snapshot, err := store.Get()
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.QueryTimeoutMS)*time.Millisecond)
			defer cancel()

			response, err := snapshot.Planner().Plan(ctx, pathfinder.Request{
				StartStation:                         c.String("start"),
				EndStation:                           c.String("end"),
				MaxTransfers:                         c.Int("max-transfers"),
				WindowMinutes:                        c.Int("window"),
				AllowSameStationConsecutiveTransfers: c.Bool("allow-same-station"),
			})
			if err != nil {
				if errors.Is(err, pathfinder.ErrInvalidRequest) || errors.Is(err, pathfinder.ErrUnknownStation) {
					return cli.Exit(err.Error(), 1)
				}
				return cli.Exit(err.Error(), 3)
			}

			if c.Bool("debug-dump") {
				pretty.Println(response)
				return nil
			}

			output, err := json.MarshalIndent(response, "", "  ")
			if err != nil {
				return cli.Exit(err.Error(), 3)
			}
			fmt.Println(string(output))

			return nil
		},
	}
}
