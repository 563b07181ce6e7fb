package pathfinder

import (
	"strings"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"github.com/Fo-mal-Haut/MetroPlan/pkg/util"
)

// DefaultWindowMinutes is the algorithm-level time window. The HTTP layer
// carries its own externally documented default and this value never leaks
// through it.
const DefaultWindowMinutes = 90

// TransferStepOptions collects the alternative ways one transfer step of a
// merged itinerary can be realized.
type TransferStepOptions struct {
	Step    int              `json:"step"`
	Options []TransferDetail `json:"options"`
}

// MergedPath is a PathSummary whose equivalent enumerations were collapsed
// into per-step transfer options.
type MergedPath struct {
	PathSummary
	ID              int                   `json:"id"`
	TransferOptions []TransferStepOptions `json:"transfer_options"`
}

// Result is the post-processed outcome of one enumeration.
type Result struct {
	Paths          []MergedPath
	FastestMinutes int
	FilteredCount  int
}

type mergeKey struct {
	trains        string
	pathType      string
	transferCount int
	departureTime string
	arrivalTime   string
	totalMinutes  int
}

// Postprocess applies the time-window cutoff relative to the fastest path,
// re-sorts, merges itineraries sharing the merge key, and assigns ids.
// The input slice is not modified.
func Postprocess(paths []PathSummary, windowMinutes int) Result {
	if len(paths) == 0 {
		return Result{Paths: []MergedPath{}}
	}

	if windowMinutes < 0 {
		windowMinutes = 0
	}

	fastest := paths[0].TotalMinutes
	for _, path := range paths[1:] {
		if path.TotalMinutes < fastest {
			fastest = path.TotalMinutes
		}
	}
	cutoff := fastest + windowMinutes

	kept := slices.Clone(paths)
	util.InPlaceFilter(&kept, func(path PathSummary) bool {
		return path.TotalMinutes <= cutoff
	})

	slices.SortStableFunc(kept, func(a, b PathSummary) int {
		if a.TotalMinutes != b.TotalMinutes {
			return a.TotalMinutes - b.TotalMinutes
		}
		return strings.Compare(a.DepartureTime, b.DepartureTime)
	})

	merged := mergeByTrainSequence(kept)

	for index := range merged {
		merged[index].ID = index + 1
	}

	return Result{
		Paths:          merged,
		FastestMinutes: fastest,
		FilteredCount:  len(kept),
	}
}

// mergeByTrainSequence collapses paths sharing (train sequence, type,
// transfer count, departure, arrival, duration) into one entry per group.
// The first path of a group is the representative and keeps its timing
// fields exactly; the others only contribute transfer options.
func mergeByTrainSequence(paths []PathSummary) []MergedPath {
	groups := map[mergeKey]*MergedPath{}
	var order []mergeKey

	for _, path := range paths {
		key := mergeKey{
			trains:        strings.Join(path.TrainSequence, "\x1f"),
			pathType:      path.Type,
			transferCount: path.TransferCount,
			departureTime: path.DepartureTime,
			arrivalTime:   path.ArrivalTime,
			totalMinutes:  path.TotalMinutes,
		}

		group, exists := groups[key]
		if !exists {
			var representative PathSummary
			if err := copier.CopyWithOption(&representative, path, copier.Option{DeepCopy: true}); err != nil {
				log.Error().Err(err).Msg("Failed to copy path summary during merge")
				representative = path
			}

			group = &MergedPath{
				PathSummary:     representative,
				TransferOptions: []TransferStepOptions{},
			}
			for step, detail := range representative.TransferDetails {
				group.TransferOptions = append(group.TransferOptions, TransferStepOptions{
					Step:    step + 1,
					Options: []TransferDetail{detail},
				})
			}

			groups[key] = group
			order = append(order, key)
			continue
		}

		for step, detail := range path.TransferDetails {
			if step >= len(group.TransferOptions) {
				break
			}
			if !slices.Contains(group.TransferOptions[step].Options, detail) {
				group.TransferOptions[step].Options = append(group.TransferOptions[step].Options, detail)
			}
		}
	}

	merged := make([]MergedPath, 0, len(order))
	for _, key := range order {
		merged = append(merged, *groups[key])
	}
	return merged
}
