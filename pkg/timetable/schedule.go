package timetable

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Fo-mal-Haut/MetroPlan/pkg/util"
)

var (
	ErrMissingField      = errors.New("schedule document is missing a required field")
	ErrDuplicateTrain    = errors.New("schedule document contains a duplicate train id")
	ErrTooFewStops       = errors.New("train must call at two or more stops")
	ErrNonMonotonicStops = errors.New("train stop times are not monotonic")
	ErrBadDirectionality = errors.New("directionality values must be -1, 0 or 1")
)

type Stop struct {
	Station string `json:"station"`
	Time    string `json:"time"`
}

type Train struct {
	ID             string `json:"id"`
	IsFast         bool   `json:"is_fast"`
	Directionality []int  `json:"directionality"`
	Stops          []Stop `json:"stops"`
}

type scheduleDocument struct {
	Train []Train `json:"train"`
}

// Schedule is the loaded train table. It is immutable after LoadSchedule
// returns and safe for concurrent readers.
type Schedule struct {
	Trains map[string]*Train

	// TrainOrder preserves document order so downstream graph construction
	// is deterministic.
	TrainOrder []string

	// Stations is the sorted unique set of station names across all stops.
	Stations []string

	// DirectionMap holds direction vectors for trains that carry one.
	DirectionMap map[string][]int
}

// LoadSchedule parses a schedule document and validates every train up front:
// malformed times, duplicate ids and non-monotonic stops are loader errors,
// never runtime surprises.
func LoadSchedule(data []byte) (*Schedule, error) {
	var document scheduleDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("failed to decode schedule document: %w", err)
	}
	if len(document.Train) == 0 {
		return nil, fmt.Errorf("%w: no trains", ErrMissingField)
	}

	schedule := &Schedule{
		Trains:       map[string]*Train{},
		DirectionMap: map[string][]int{},
	}

	var stationNames []string

	for index := range document.Train {
		train := &document.Train[index]

		if train.ID == "" {
			return nil, fmt.Errorf("%w: train %d has no id", ErrMissingField, index)
		}
		if _, exists := schedule.Trains[train.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTrain, train.ID)
		}
		if len(train.Stops) < 2 {
			return nil, fmt.Errorf("%w: train %s", ErrTooFewStops, train.ID)
		}

		if err := validateStops(train); err != nil {
			return nil, err
		}

		for _, value := range train.Directionality {
			if value < -1 || value > 1 {
				return nil, fmt.Errorf("%w: train %s", ErrBadDirectionality, train.ID)
			}
		}

		schedule.Trains[train.ID] = train
		schedule.TrainOrder = append(schedule.TrainOrder, train.ID)

		if train.Directionality != nil {
			schedule.DirectionMap[train.ID] = train.Directionality
		}

		for _, stop := range train.Stops {
			stationNames = append(stationNames, stop.Station)
		}
	}

	schedule.Stations = util.UniqueSorted(stationNames)

	return schedule, nil
}

// validateStops checks each stop for a station name and a parseable time, and
// that times strictly increase with at most one wrap past midnight.
func validateStops(train *Train) error {
	previous := -1
	wrapped := false

	for stopIndex, stop := range train.Stops {
		if stop.Station == "" {
			return fmt.Errorf("%w: train %s stop %d has no station", ErrMissingField, train.ID, stopIndex)
		}

		minutes, err := ParseTime(stop.Time)
		if err != nil {
			return fmt.Errorf("train %s stop %d: %w", train.ID, stopIndex, err)
		}

		if previous >= 0 {
			if Duration(previous, minutes) == 0 {
				return fmt.Errorf("%w: train %s repeats %s", ErrNonMonotonicStops, train.ID, stop.Time)
			}
			if minutes < previous {
				if wrapped {
					return fmt.Errorf("%w: train %s wraps midnight twice", ErrNonMonotonicStops, train.ID)
				}
				wrapped = true
			}
		}
		previous = minutes
	}

	return nil
}

// FastTrains returns the train id to fast-classification map used by the
// path enumerator.
func (s *Schedule) FastTrains() map[string]bool {
	fast := make(map[string]bool, len(s.Trains))
	for id, train := range s.Trains {
		fast[id] = train.IsFast
	}
	return fast
}
