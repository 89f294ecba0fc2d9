package engine

import (
	"math"
	"sort"

	"github.com/hearthside/carepath-backend/internal/domain/program"
)

// Aggregate folds all per-day standings into the caregiver's program view.
// The divisor is always the fixed day count, never the number of unlocked
// days, so the overall percentage only reaches 100 once every day is
// complete.
func Aggregate(standings []DayStanding) ProgramSummary {
	sorted := make([]DayStanding, len(standings))
	copy(sorted, standings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Day < sorted[j].Day })

	sum := 0
	for _, s := range sorted {
		sum += s.Progress.Percentage
	}
	summary := ProgramSummary{
		OverallProgress: int(math.Round(float64(sum) / float64(program.DayCount))),
		CurrentDay:      program.FirstDay,
	}

	// New-caregiver default: Day 0 while it is still open.
	for _, s := range sorted {
		if s.Day == program.FirstDay {
			if !s.Progress.DayCompleted {
				return summary
			}
			break
		}
	}

	// Otherwise the first unlocked, unfinished day.
	for _, s := range sorted {
		if s.Unlocked && !s.Progress.DayCompleted {
			summary.CurrentDay = s.Day
			return summary
		}
	}

	// Everything reachable is done: settle on the highest completed day.
	for _, s := range sorted {
		if s.Progress.DayCompleted {
			summary.CurrentDay = s.Day
		}
	}
	return summary
}
