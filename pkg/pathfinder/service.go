package pathfinder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slices"
)

var (
	ErrInvalidRequest = errors.New("invalid path request")
	ErrUnknownStation = errors.New("unknown station")
)

// MaxWindowMinutes bounds the window a request may ask for.
const MaxWindowMinutes = 480

// Request carries the validated parameters of one itinerary query.
type Request struct {
	StartStation  string
	EndStation    string
	MaxTransfers  int
	WindowMinutes int

	AllowSameStationConsecutiveTransfers bool
}

type Summary struct {
	TotalPaths                  int `json:"total_paths"`
	FastestMinutes              int `json:"fastest_minutes"`
	WindowMinutes               int `json:"window_minutes"`
	FilteredPaths               int `json:"filtered_paths"`
	MergedPaths                 int `json:"merged_paths"`
	SkippedSameStationTransfers int `json:"skipped_same_station_transfers"`
}

type Metadata struct {
	MaxTransfers int    `json:"max_transfers"`
	GeneratedAt  string `json:"generated_at"`
}

// Response is the assembled payload for one query.
type Response struct {
	StartStation string       `json:"start_station"`
	EndStation   string       `json:"end_station"`
	Paths        []MergedPath `json:"paths"`
	Summary      Summary      `json:"summary"`
	Metadata     Metadata     `json:"metadata"`
}

// Planner is the query facade: it validates a request, runs the enumerator
// and the post-processor, and assembles the response envelope.
type Planner struct {
	Finder   Finder
	Stations []string
}

// Validate checks a request against the station directory and the parameter
// bounds. Failures carry either ErrInvalidRequest or ErrUnknownStation.
func (p *Planner) Validate(request Request) error {
	if request.StartStation == "" || request.EndStation == "" {
		return fmt.Errorf("%w: start_station and end_station are required", ErrInvalidRequest)
	}
	if request.StartStation == request.EndStation {
		return fmt.Errorf("%w: start_station and end_station must differ", ErrInvalidRequest)
	}
	if request.MaxTransfers < 0 || request.MaxTransfers > HardMaxTransfers {
		return fmt.Errorf("%w: max_transfers must be between 0 and %d", ErrInvalidRequest, HardMaxTransfers)
	}
	if request.WindowMinutes < 0 || request.WindowMinutes > MaxWindowMinutes {
		return fmt.Errorf("%w: window_minutes must be between 0 and %d", ErrInvalidRequest, MaxWindowMinutes)
	}
	if !slices.Contains(p.Stations, request.StartStation) {
		return fmt.Errorf("%w: start station %q", ErrUnknownStation, request.StartStation)
	}
	if !slices.Contains(p.Stations, request.EndStation) {
		return fmt.Errorf("%w: end station %q", ErrUnknownStation, request.EndStation)
	}
	return nil
}

// Plan runs the full query lifecycle. Enumeration observes ctx and a
// cancellation surfaces as the context's error.
func (p *Planner) Plan(ctx context.Context, request Request) (*Response, error) {
	if err := p.Validate(request); err != nil {
		return nil, err
	}

	paths, stats, err := p.Finder.FindPaths(ctx, Query{
		StartStation:                         request.StartStation,
		EndStation:                           request.EndStation,
		MaxTransfers:                         request.MaxTransfers,
		AllowSameStationConsecutiveTransfers: request.AllowSameStationConsecutiveTransfers,
	})
	if err != nil {
		return nil, err
	}

	result := Postprocess(paths, request.WindowMinutes)

	return &Response{
		StartStation: request.StartStation,
		EndStation:   request.EndStation,
		Paths:        result.Paths,
		Summary: Summary{
			TotalPaths:                  len(paths),
			FastestMinutes:              result.FastestMinutes,
			WindowMinutes:               request.WindowMinutes,
			FilteredPaths:               result.FilteredCount,
			MergedPaths:                 len(result.Paths),
			SkippedSameStationTransfers: stats.SkippedSameStationTransfers,
		},
		Metadata: Metadata{
			MaxTransfers: request.MaxTransfers,
			GeneratedAt:  time.Now().Format(time.RFC3339),
		},
	}, nil
}
