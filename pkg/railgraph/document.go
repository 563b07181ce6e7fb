package railgraph

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Fo-mal-Haut/MetroPlan/pkg/timetable"
)

var ErrBadGraphDocument = errors.New("graph document is malformed")

type documentEdge struct {
	From              []string `json:"from"`
	To                []string `json:"to"`
	Weight            int      `json:"weight"`
	SegmentTravelTime int      `json:"segment_travel_time"`
	Type              string   `json:"type"`
}

type graphDocument struct {
	Nodes [][]string     `json:"nodes"`
	Edges []documentEdge `json:"edges"`
}

// LoadGraphDocument parses a prebuilt fast-graph document, an alternative to
// building the graph from a schedule. Nodes are [station, train, "HH:MM"]
// triples; edges reference nodes by value. Edges naming a node that is not in
// the node list are dropped rather than failing the load.
func LoadGraphDocument(data []byte) (*Graph, error) {
	var document graphDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("failed to decode graph document: %w", err)
	}
	if len(document.Nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes", ErrBadGraphDocument)
	}

	assembler := newAssembler()

	for index, triple := range document.Nodes {
		if len(triple) != 3 {
			return nil, fmt.Errorf("%w: node %d is not a [station, train, time] triple", ErrBadGraphDocument, index)
		}
		minutes, err := timetable.ParseTime(triple[2])
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", index, err)
		}
		assembler.internNode(triple[0], triple[1], minutes)
	}

	for _, edge := range document.Edges {
		from, okFrom := assembler.resolve(edge.From)
		to, okTo := assembler.resolve(edge.To)
		if !okFrom || !okTo {
			continue
		}

		duration := edge.Weight
		if duration <= 0 {
			duration = edge.SegmentTravelTime
		}

		kind := EdgeKind(edge.Type)
		if kind != EdgeTransfer {
			kind = EdgeTravel
		}

		assembler.addArc(from, to, kind, duration)
	}

	return assembler.graph, nil
}

func (a *graphAssembler) resolve(triple []string) (int, bool) {
	if len(triple) != 3 {
		return 0, false
	}
	minutes, err := timetable.ParseTime(triple[2])
	if err != nil {
		return 0, false
	}
	index, exists := a.lookup[nodeKey{station: triple[0], train: triple[1], time: minutes}]
	return index, exists
}
