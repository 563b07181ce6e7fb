package railgraph

import (
	"testing"

	"github.com/Fo-mal-Haut/MetroPlan/pkg/timetable"
)

func mustSchedule(t *testing.T, document string) *timetable.Schedule {
	t.Helper()
	schedule, err := timetable.LoadSchedule([]byte(document))
	if err != nil {
		t.Fatalf("failed to load schedule: %v", err)
	}
	return schedule
}

func findArc(g *Graph, from int, to int) (Arc, bool) {
	for _, arc := range g.Adjacency[from] {
		if arc.To == to {
			return arc, true
		}
	}
	return Arc{}, false
}

func nodeIndex(g *Graph, station string, train string, minutes int) int {
	for index, node := range g.Nodes {
		if node.Station == station && node.Train == train && node.Time == minutes {
			return index
		}
	}
	return -1
}

func TestBuildGraphTravelEdges(t *testing.T) {
	schedule := mustSchedule(t, `{"train": [
		{"id": "T1", "stops": [
			{"station": "X", "time": "08:00"},
			{"station": "Y", "time": "08:30"},
			{"station": "Z", "time": "09:00"}
		]}
	]}`)

	graph := BuildGraph(schedule, TransferPolicy{MinConnect: 5, MaxWait: 60})

	if len(graph.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(graph.Nodes))
	}
	if graph.EdgeCount() != 2 {
		t.Errorf("expected 2 travel edges, got %d", graph.EdgeCount())
	}

	x := nodeIndex(graph, "X", "T1", 480)
	y := nodeIndex(graph, "Y", "T1", 510)
	z := nodeIndex(graph, "Z", "T1", 540)
	if x < 0 || y < 0 || z < 0 {
		t.Fatalf("nodes missing: x=%d y=%d z=%d", x, y, z)
	}

	arc, found := findArc(graph, x, y)
	if !found || arc.Kind != EdgeTravel || arc.Duration != 30 {
		t.Errorf("X->Y arc wrong: %+v found=%v", arc, found)
	}

	// The last stop has no outgoing travel edge.
	if len(graph.Adjacency[z]) != 0 {
		t.Errorf("terminal stop has outgoing arcs: %+v", graph.Adjacency[z])
	}
}

func TestBuildGraphTransferEdges(t *testing.T) {
	schedule := mustSchedule(t, `{"train": [
		{"id": "T1", "stops": [
			{"station": "X", "time": "08:00"},
			{"station": "Y", "time": "08:30"}
		]},
		{"id": "T2", "stops": [
			{"station": "Y", "time": "08:40"},
			{"station": "Z", "time": "09:10"}
		]},
		{"id": "T3", "stops": [
			{"station": "Y", "time": "11:00"},
			{"station": "Z", "time": "11:30"}
		]}
	]}`)

	graph := BuildGraph(schedule, TransferPolicy{MinConnect: 5, MaxWait: 60})

	yT1 := nodeIndex(graph, "Y", "T1", 510)
	yT2 := nodeIndex(graph, "Y", "T2", 520)
	yT3 := nodeIndex(graph, "Y", "T3", 660)

	arc, found := findArc(graph, yT1, yT2)
	if !found || arc.Kind != EdgeTransfer || arc.Duration != 10 {
		t.Errorf("expected a 10 minute transfer from T1 to T2 at Y, got %+v found=%v", arc, found)
	}

	// 150 minutes exceeds the wait window.
	if _, found := findArc(graph, yT1, yT3); found {
		t.Error("transfer edge past the maximum wait was emitted")
	}

	// 140 minutes from T2 to T3 also exceeds the window.
	if _, found := findArc(graph, yT2, yT3); found {
		t.Error("unexpected transfer edge from T2 to T3")
	}

	// Reverse direction wraps past midnight, far beyond the window.
	if _, found := findArc(graph, yT2, yT1); found {
		t.Error("unexpected reverse transfer edge")
	}
}

func TestBuildGraphNoSameTrainTransfers(t *testing.T) {
	schedule := mustSchedule(t, `{"train": [
		{"id": "T1", "stops": [
			{"station": "X", "time": "08:00"},
			{"station": "Y", "time": "08:30"}
		]},
		{"id": "T2", "stops": [
			{"station": "Y", "time": "08:40"},
			{"station": "X", "time": "09:05"}
		]}
	]}`)

	graph := BuildGraph(schedule, TransferPolicy{MinConnect: 5, MaxWait: 60})

	for from, arcs := range graph.Adjacency {
		for _, arc := range arcs {
			if arc.Kind != EdgeTransfer {
				continue
			}
			if graph.Nodes[from].Train == graph.Nodes[arc.To].Train {
				t.Errorf("transfer between nodes of the same train: %+v -> %+v", graph.Nodes[from], graph.Nodes[arc.To])
			}
			if graph.Nodes[from].Station != graph.Nodes[arc.To].Station {
				t.Errorf("transfer across stations: %+v -> %+v", graph.Nodes[from], graph.Nodes[arc.To])
			}
			if arc.Duration <= 0 {
				t.Errorf("non-positive transfer duration: %+v", arc)
			}
		}
	}
}

func TestGraphStationsAndLookup(t *testing.T) {
	schedule := mustSchedule(t, `{"train": [
		{"id": "T1", "stops": [
			{"station": "B", "time": "08:00"},
			{"station": "A", "time": "08:30"}
		]}
	]}`)

	graph := BuildGraph(schedule, TransferPolicy{MinConnect: 5, MaxWait: 60})

	stations := graph.Stations()
	if len(stations) != 2 || stations[0] != "A" || stations[1] != "B" {
		t.Errorf("stations not sorted unique: %v", stations)
	}

	if len(graph.NodesAt("B")) != 1 {
		t.Errorf("expected one node at B, got %v", graph.NodesAt("B"))
	}
	if len(graph.NodesAt("missing")) != 0 {
		t.Error("lookup of an absent station returned nodes")
	}
}
