package dataset

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/Fo-mal-Haut/MetroPlan/pkg/pathfinder"
	"github.com/Fo-mal-Haut/MetroPlan/pkg/railgraph"
	"github.com/Fo-mal-Haut/MetroPlan/pkg/timetable"
)

var ErrNotLoaded = errors.New("dataset is not loaded")

// Source describes where a snapshot comes from. GraphPath is optional: when
// set, the prebuilt fast-graph document is used instead of building the graph
// from the schedule.
type Source struct {
	SchedulePath string
	GraphPath    string
	Policy       railgraph.TransferPolicy
}

// Snapshot is one immutable bundle of loaded data. Requests read it without
// synchronization; a reload publishes a fresh snapshot instead of mutating.
type Snapshot struct {
	Schedule     *timetable.Schedule
	Graph        *railgraph.Graph
	FastTrains   map[string]bool
	DirectionMap map[string][]int
	Stations     []string
	LoadedAt     time.Time
}

// DataLoaded reports which structures of the snapshot are present, in the
// shape the health endpoint exposes.
type DataLoaded struct {
	Graph             bool `json:"graph"`
	Schedule          bool `json:"schedule"`
	TrainInfo         bool `json:"train_info"`
	DirectionalityMap bool `json:"directionality_map"`
	Adjacency         bool `json:"adjacency"`
	Nodes             bool `json:"nodes"`
	StationsList      bool `json:"stations_list"`
}

func (s *Snapshot) DataLoaded() DataLoaded {
	if s == nil {
		return DataLoaded{}
	}
	return DataLoaded{
		Graph:             s.Graph != nil,
		Schedule:          s.Schedule != nil,
		TrainInfo:         s.FastTrains != nil,
		DirectionalityMap: s.DirectionMap != nil,
		Adjacency:         s.Graph != nil && s.Graph.Adjacency != nil,
		Nodes:             s.Graph != nil && len(s.Graph.Nodes) > 0,
		StationsList:      len(s.Stations) > 0,
	}
}

// Planner builds the query facade bound to this snapshot.
func (s *Snapshot) Planner() *pathfinder.Planner {
	return &pathfinder.Planner{
		Finder: pathfinder.Finder{
			Graph:        s.Graph,
			FastTrains:   s.FastTrains,
			DirectionMap: s.DirectionMap,
		},
		Stations: s.Stations,
	}
}

// Store holds the current snapshot behind an atomic pointer. Load and Reload
// construct a new snapshot off the critical path and swap the reference;
// in-flight requests keep the snapshot they started with.
type Store struct {
	source  Source
	current atomic.Pointer[Snapshot]
}

func NewStore(source Source) *Store {
	return &Store{source: source}
}

// Get returns the current snapshot, or ErrNotLoaded before the first
// successful Load.
func (store *Store) Get() (*Snapshot, error) {
	snapshot := store.current.Load()
	if snapshot == nil {
		return nil, ErrNotLoaded
	}
	return snapshot, nil
}

// Load reads the source files, builds a snapshot and publishes it.
func (store *Store) Load() error {
	scheduleData, err := os.ReadFile(store.source.SchedulePath)
	if err != nil {
		return fmt.Errorf("failed to read schedule file: %w", err)
	}

	schedule, err := timetable.LoadSchedule(scheduleData)
	if err != nil {
		return err
	}

	var graph *railgraph.Graph
	if store.source.GraphPath != "" {
		graphData, err := os.ReadFile(store.source.GraphPath)
		if err != nil {
			return fmt.Errorf("failed to read graph file: %w", err)
		}
		graph, err = railgraph.LoadGraphDocument(graphData)
		if err != nil {
			return err
		}
	} else {
		graph = railgraph.BuildGraph(schedule, store.source.Policy)
	}

	snapshot := &Snapshot{
		Schedule:     schedule,
		Graph:        graph,
		FastTrains:   schedule.FastTrains(),
		DirectionMap: schedule.DirectionMap,
		Stations:     schedule.Stations,
		LoadedAt:     time.Now(),
	}

	store.current.Store(snapshot)

	log.Info().
		Int("trains", len(schedule.Trains)).
		Int("stations", len(schedule.Stations)).
		Int("nodes", len(graph.Nodes)).
		Int("edges", graph.EdgeCount()).
		Msg("Published dataset snapshot")

	return nil
}

// LoadWithRetry retries Load with exponential backoff until it succeeds or
// maxElapsed passes.
func (store *Store) LoadWithRetry(maxElapsed time.Duration) error {
	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.MaxElapsedTime = maxElapsed

	return backoff.RetryNotify(store.Load, retryBackoff, func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry-in", wait).Msg("Dataset load failed")
	})
}

// Reload builds a fresh snapshot from the same source and swaps it in.
func (store *Store) Reload() error {
	return store.Load()
}
