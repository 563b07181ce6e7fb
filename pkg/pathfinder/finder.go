package pathfinder

import (
	"context"
	"runtime"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/exp/slices"

	"github.com/Fo-mal-Haut/MetroPlan/pkg/railgraph"
	"github.com/Fo-mal-Haut/MetroPlan/pkg/timetable"
)

// HardMaxTransfers caps the transfer count a query may ask for.
const HardMaxTransfers = 2

type TransferDetail struct {
	Station       string `json:"station"`
	ArrivalTime   string `json:"arrival_time"`
	DepartureTime string `json:"departure_time"`
	WaitMinutes   int    `json:"wait_minutes"`
}

// PathSummary is the enumerator's record of one complete itinerary.
type PathSummary struct {
	Type            string           `json:"type"`
	TrainSequence   []string         `json:"train_sequence"`
	DepartureTime   string           `json:"departure_time"`
	ArrivalTime     string           `json:"arrival_time"`
	TotalTime       string           `json:"total_time"`
	TotalMinutes    int              `json:"total_minutes"`
	IsFast          bool             `json:"is_fast"`
	TransferCount   int              `json:"transfer_count"`
	TransferDetails []TransferDetail `json:"transfer_details"`
}

// Stats counts enumeration work that is invisible in the path list itself.
type Stats struct {
	SkippedSameStationTransfers int
	InconsistentPaths           int
}

// Query are the enumeration parameters for one request.
type Query struct {
	StartStation string
	EndStation   string
	MaxTransfers int

	// AllowSameStationConsecutiveTransfers permits two transfers in a row at
	// the same station; disallowed by default.
	AllowSameStationConsecutiveTransfers bool
}

// Finder enumerates itineraries over an immutable graph snapshot. It holds no
// per-request state and is safe for concurrent use.
type Finder struct {
	Graph        *railgraph.Graph
	FastTrains   map[string]bool
	DirectionMap map[string][]int
}

// FindPaths runs a bounded-depth DFS from every node at the start station and
// returns every feasible itinerary, sorted ascending by duration then
// departure. The walk observes ctx between DFS steps.
func (f *Finder) FindPaths(ctx context.Context, query Query) ([]PathSummary, Stats, error) {
	startNodes := f.Graph.NodesAt(query.StartStation)
	if len(startNodes) == 0 {
		return []PathSummary{}, Stats{}, nil
	}

	// One walker per start node, fanned out over a bounded pool. Results land
	// in per-start slots so the output order never depends on scheduling.
	walkers := make([]*walker, len(startNodes))

	p := pool.New().WithMaxGoroutines(runtime.GOMAXPROCS(0))
	for slot, startIndex := range startNodes {
		p.Go(func() {
			w := &walker{
				finder:  f,
				query:   query,
				ctx:     ctx,
				visited: make([]bool, len(f.Graph.Nodes)),
			}
			w.run(startIndex)
			walkers[slot] = w
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}

	var paths []PathSummary
	var stats Stats
	for _, w := range walkers {
		paths = append(paths, w.paths...)
		stats.SkippedSameStationTransfers += w.stats.SkippedSameStationTransfers
		stats.InconsistentPaths += w.stats.InconsistentPaths
	}

	slices.SortStableFunc(paths, func(a, b PathSummary) int {
		if a.TotalMinutes != b.TotalMinutes {
			return a.TotalMinutes - b.TotalMinutes
		}
		switch {
		case a.DepartureTime < b.DepartureTime:
			return -1
		case a.DepartureTime > b.DepartureTime:
			return 1
		}
		return 0
	})

	if paths == nil {
		paths = []PathSummary{}
	}
	return paths, stats, nil
}

type traceEdge struct {
	from     int
	to       int
	kind     railgraph.EdgeKind
	duration int
}

// walker holds the mutable state of one DFS rooted at a single start node.
type walker struct {
	finder  *Finder
	query   Query
	ctx     context.Context
	visited []bool
	trace   []traceEdge
	trains  []string
	paths   []PathSummary
	stats   Stats

	startTime int
}

func (w *walker) run(startIndex int) {
	startNode := w.finder.Graph.Nodes[startIndex]
	w.startTime = startNode.Time
	w.trains = []string{startNode.Train}
	w.visited[startIndex] = true
	w.step(startIndex, 0, "")
}

// step advances the DFS from node index. lastTransferStation is the station
// of the most recent transfer on this branch, empty before the first one.
func (w *walker) step(index int, transfers int, lastTransferStation string) {
	if w.ctx.Err() != nil {
		return
	}

	graph := w.finder.Graph
	node := graph.Nodes[index]

	// The destination terminates this branch; an itinerary needs at least
	// one edge.
	if node.Station == w.query.EndStation && len(w.trace) > 0 {
		if summary, ok := w.summarize(index); ok {
			if w.finder.directionCompatible(summary.TrainSequence) {
				w.paths = append(w.paths, summary)
			}
		}
		return
	}

	for _, arc := range graph.Adjacency[index] {
		if w.visited[arc.To] {
			continue
		}
		if arc.Duration <= 0 {
			continue
		}

		// The edge kind already records transfers, but any hop between
		// distinct train ids is semantically a transfer too.
		isTransfer := arc.Kind == railgraph.EdgeTransfer || graph.Nodes[arc.To].Train != node.Train

		if isTransfer && !w.query.AllowSameStationConsecutiveTransfers &&
			lastTransferStation != "" && node.Station == lastTransferStation {
			w.stats.SkippedSameStationTransfers++
			continue
		}

		nextTransfers := transfers
		if isTransfer {
			nextTransfers++
		}
		if nextTransfers > w.query.MaxTransfers {
			continue
		}

		nextTrain := graph.Nodes[arc.To].Train
		pushedTrain := nextTrain != w.trains[len(w.trains)-1]
		if pushedTrain {
			w.trains = append(w.trains, nextTrain)
		}

		nextTransferStation := lastTransferStation
		if isTransfer {
			nextTransferStation = node.Station
		}

		w.visited[arc.To] = true
		w.trace = append(w.trace, traceEdge{from: index, to: arc.To, kind: arc.Kind, duration: arc.Duration})

		w.step(arc.To, nextTransfers, nextTransferStation)

		w.trace = w.trace[:len(w.trace)-1]
		w.visited[arc.To] = false
		if pushedTrain {
			w.trains = w.trains[:len(w.trains)-1]
		}
	}
}

// summarize walks the edge trace into a PathSummary. The accumulated timeline
// must agree with the recorded arrival node; a path that disagrees is dropped
// and counted rather than patched over.
func (w *walker) summarize(arrivalIndex int) (PathSummary, bool) {
	graph := w.finder.Graph

	timeline := w.startTime
	transferDetails := []TransferDetail{}

	for _, edge := range w.trace {
		previous := timeline
		timeline += edge.duration

		if edge.kind == railgraph.EdgeTransfer {
			transferDetails = append(transferDetails, TransferDetail{
				Station:       graph.Nodes[edge.from].Station,
				ArrivalTime:   timetable.FormatTime(previous),
				DepartureTime: timetable.FormatTime(timeline),
				WaitMinutes:   edge.duration,
			})
		}
	}

	arrivalNode := graph.Nodes[arrivalIndex]
	if timeline%timetable.MinutesPerDay != arrivalNode.Time%timetable.MinutesPerDay {
		w.stats.InconsistentPaths++
		log.Debug().
			Str("station", arrivalNode.Station).
			Str("train", arrivalNode.Train).
			Int("accumulated", timeline).
			Int("recorded", arrivalNode.Time).
			Msg("Dropping path with inconsistent arrival time")
		return PathSummary{}, false
	}

	totalMinutes := timeline - w.startTime

	trainSequence := slices.Clone(w.trains)

	isFast := false
	for _, trainID := range trainSequence {
		if w.finder.FastTrains[trainID] {
			isFast = true
			break
		}
	}

	pathType := "Direct"
	if len(transferDetails) > 0 {
		pathType = "Transfer"
	}

	return PathSummary{
		Type:            pathType,
		TrainSequence:   trainSequence,
		DepartureTime:   timetable.FormatTime(w.startTime),
		ArrivalTime:     timetable.FormatTime(timeline),
		TotalTime:       timetable.FormatDuration(totalMinutes),
		TotalMinutes:    totalMinutes,
		IsFast:          isFast,
		TransferCount:   len(transferDetails),
		TransferDetails: transferDetails,
	}, true
}

// directionCompatible rejects train sequences where two consecutively boarded
// trains traverse a shared line in opposing directions. Pairs with a missing
// vector are not judged.
func (f *Finder) directionCompatible(trainSequence []string) bool {
	for k := 0; k+1 < len(trainSequence); k++ {
		a, okA := f.DirectionMap[trainSequence[k]]
		b, okB := f.DirectionMap[trainSequence[k+1]]
		if !okA || !okB {
			continue
		}

		lines := len(a)
		if len(b) < lines {
			lines = len(b)
		}
		for line := 0; line < lines; line++ {
			if a[line] != 0 && b[line] != 0 && a[line] == -b[line] {
				return false
			}
		}
	}
	return true
}
