package pathfinder

import (
	"context"
	"errors"
	"testing"

	"github.com/Fo-mal-Haut/MetroPlan/pkg/railgraph"
	"github.com/Fo-mal-Haut/MetroPlan/pkg/timetable"
)

func buildPlanner(t *testing.T, document string) *Planner {
	t.Helper()

	schedule, err := timetable.LoadSchedule([]byte(document))
	if err != nil {
		t.Fatalf("failed to load schedule: %v", err)
	}

	return &Planner{
		Finder: Finder{
			Graph:        railgraph.BuildGraph(schedule, defaultPolicy),
			FastTrains:   schedule.FastTrains(),
			DirectionMap: schedule.DirectionMap,
		},
		Stations: schedule.Stations,
	}
}

const plannerSchedule = `{"train": [
	{"id": "T1", "is_fast": true, "stops": [
		{"station": "X", "time": "08:00"},
		{"station": "Y", "time": "08:30"},
		{"station": "Z", "time": "09:00"}
	]}
]}`

func TestPlanAssemblesEnvelope(t *testing.T) {
	planner := buildPlanner(t, plannerSchedule)

	response, err := planner.Plan(context.Background(), Request{
		StartStation:  "X",
		EndStation:    "Z",
		MaxTransfers:  2,
		WindowMinutes: 120,
	})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if response.StartStation != "X" || response.EndStation != "Z" {
		t.Errorf("endpoints wrong: %s -> %s", response.StartStation, response.EndStation)
	}
	if len(response.Paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(response.Paths))
	}
	if response.Paths[0].ID != 1 {
		t.Errorf("path id = %d, want 1", response.Paths[0].ID)
	}
	if len(response.Paths[0].TransferOptions) != 0 {
		t.Errorf("direct path has transfer options: %+v", response.Paths[0].TransferOptions)
	}

	s := response.Summary
	if s.TotalPaths != 1 || s.FastestMinutes != 60 || s.WindowMinutes != 120 ||
		s.FilteredPaths != 1 || s.MergedPaths != 1 {
		t.Errorf("summary wrong: %+v", s)
	}

	if response.Metadata.MaxTransfers != 2 || response.Metadata.GeneratedAt == "" {
		t.Errorf("metadata wrong: %+v", response.Metadata)
	}
}

func TestPlanEmptyResultIsStructured(t *testing.T) {
	planner := buildPlanner(t, `{"train": [
		{"id": "T1", "stops": [
			{"station": "X", "time": "08:00"},
			{"station": "Y", "time": "08:30"}
		]},
		{"id": "T2", "stops": [
			{"station": "W", "time": "10:00"},
			{"station": "Z", "time": "10:30"}
		]}
	]}`)

	response, err := planner.Plan(context.Background(), Request{
		StartStation:  "X",
		EndStation:    "Z",
		MaxTransfers:  2,
		WindowMinutes: 120,
	})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if response.Paths == nil || len(response.Paths) != 0 {
		t.Errorf("expected an empty path list, got %+v", response.Paths)
	}
	if response.Summary.TotalPaths != 0 || response.Summary.MergedPaths != 0 {
		t.Errorf("summary wrong for empty result: %+v", response.Summary)
	}
}

func TestPlanValidation(t *testing.T) {
	planner := buildPlanner(t, plannerSchedule)

	tests := []struct {
		name    string
		request Request
		want    error
	}{
		{
			name:    "missing endpoints",
			request: Request{MaxTransfers: 2},
			want:    ErrInvalidRequest,
		},
		{
			name:    "identical endpoints",
			request: Request{StartStation: "X", EndStation: "X", MaxTransfers: 2},
			want:    ErrInvalidRequest,
		},
		{
			name:    "transfers above cap",
			request: Request{StartStation: "X", EndStation: "Z", MaxTransfers: 3},
			want:    ErrInvalidRequest,
		},
		{
			name:    "negative transfers",
			request: Request{StartStation: "X", EndStation: "Z", MaxTransfers: -1},
			want:    ErrInvalidRequest,
		},
		{
			name:    "window above cap",
			request: Request{StartStation: "X", EndStation: "Z", MaxTransfers: 2, WindowMinutes: 481},
			want:    ErrInvalidRequest,
		},
		{
			name:    "unknown start",
			request: Request{StartStation: "Ghost", EndStation: "Z", MaxTransfers: 2},
			want:    ErrUnknownStation,
		},
		{
			name:    "unknown end",
			request: Request{StartStation: "X", EndStation: "Ghost", MaxTransfers: 2},
			want:    ErrUnknownStation,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := planner.Plan(context.Background(), test.request)
			if !errors.Is(err, test.want) {
				t.Errorf("expected %v, got %v", test.want, err)
			}
		})
	}
}

func TestPlanCancelled(t *testing.T) {
	planner := buildPlanner(t, plannerSchedule)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := planner.Plan(ctx, Request{
		StartStation:  "X",
		EndStation:    "Z",
		MaxTransfers:  2,
		WindowMinutes: 120,
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
