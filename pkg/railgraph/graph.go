package railgraph

import (
	"github.com/Fo-mal-Haut/MetroPlan/pkg/timetable"
	"github.com/Fo-mal-Haut/MetroPlan/pkg/util"
)

type EdgeKind string

const (
	EdgeTravel   EdgeKind = "travel"
	EdgeTransfer EdgeKind = "transfer"
)

// Node is one physical visit of a train to a station in the time-expanded
// graph. The (Station, Train, Time) triple is the node identity.
type Node struct {
	Station string
	Train   string
	Time    int
}

// Arc is one outbound adjacency entry, keyed by dense node index.
type Arc struct {
	To       int
	Kind     EdgeKind
	Duration int
}

// Graph is the immutable time-expanded graph. Nodes are indexed densely;
// Adjacency[i] lists every outbound arc of node i.
type Graph struct {
	Nodes     []Node
	Adjacency [][]Arc

	byStation map[string][]int
}

// TransferPolicy bounds the wait admitted for a transfer edge. The values
// are explicit build configuration, never inferred from data.
type TransferPolicy struct {
	MinConnect int
	MaxWait    int
}

type nodeKey struct {
	station string
	train   string
	time    int
}

// graphAssembler interns nodes by their identity triple during construction.
// The lookup map is discarded once the graph is finalized.
type graphAssembler struct {
	graph  *Graph
	lookup map[nodeKey]int
}

func newAssembler() *graphAssembler {
	return &graphAssembler{
		graph:  &Graph{byStation: map[string][]int{}},
		lookup: map[nodeKey]int{},
	}
}

func (a *graphAssembler) internNode(station string, train string, time int) int {
	key := nodeKey{station: station, train: train, time: time}
	if index, exists := a.lookup[key]; exists {
		return index
	}

	index := len(a.graph.Nodes)
	a.graph.Nodes = append(a.graph.Nodes, Node{Station: station, Train: train, Time: time})
	a.graph.Adjacency = append(a.graph.Adjacency, nil)
	a.graph.byStation[station] = append(a.graph.byStation[station], index)
	a.lookup[key] = index
	return index
}

func (a *graphAssembler) addArc(from int, to int, kind EdgeKind, duration int) {
	if duration <= 0 {
		return
	}
	a.graph.Adjacency[from] = append(a.graph.Adjacency[from], Arc{To: to, Kind: kind, Duration: duration})
}

// addTransferArcs emits a transfer edge for every ordered pair of same-station
// nodes on distinct trains whose wait falls inside the policy window.
func (a *graphAssembler) addTransferArcs(policy TransferPolicy) {
	for _, indices := range a.graph.byStation {
		for _, from := range indices {
			for _, to := range indices {
				if from == to {
					continue
				}
				if a.graph.Nodes[from].Train == a.graph.Nodes[to].Train {
					continue
				}

				wait := timetable.Duration(a.graph.Nodes[from].Time, a.graph.Nodes[to].Time)
				if wait < policy.MinConnect || wait > policy.MaxWait {
					continue
				}

				a.addArc(from, to, EdgeTransfer, wait)
			}
		}
	}
}

// BuildGraph constructs the time-expanded graph from a loaded schedule:
// one node per stop, travel edges between consecutive stops of a train, and
// transfer edges between distinct trains at a shared station within the
// policy window.
func BuildGraph(schedule *timetable.Schedule, policy TransferPolicy) *Graph {
	assembler := newAssembler()

	for _, trainID := range schedule.TrainOrder {
		train := schedule.Trains[trainID]

		previousIndex := -1
		for _, stop := range train.Stops {
			// Stop times were validated by the loader.
			minutes, _ := timetable.ParseTime(stop.Time)
			index := assembler.internNode(stop.Station, trainID, minutes)

			if previousIndex >= 0 {
				duration := timetable.Duration(assembler.graph.Nodes[previousIndex].Time, minutes)
				assembler.addArc(previousIndex, index, EdgeTravel, duration)
			}
			previousIndex = index
		}
	}

	assembler.addTransferArcs(policy)

	return assembler.graph
}

// NodesAt returns the indices of every node at the named station.
func (g *Graph) NodesAt(station string) []int {
	return g.byStation[station]
}

// Stations returns the sorted unique station names present in the graph.
func (g *Graph) Stations() []string {
	names := make([]string, 0, len(g.byStation))
	for station := range g.byStation {
		names = append(names, station)
	}
	return util.UniqueSorted(names)
}

// EdgeCount returns the total number of arcs in the adjacency index.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, arcs := range g.Adjacency {
		count += len(arcs)
	}
	return count
}
