package engine

import "math"

// Reduce folds persisted completion facts and resolved content into the
// day's progress view. It is pure and order-independent: completion is a
// set-membership fact keyed by task ID, so replaying the same facts in any
// order, any number of times, yields the same result.
func Reduce(state *DayState, resolved *ResolvedDay) DayProgress {
	progress := DayProgress{
		VideoCompleted: state.VideoCompleted,
	}

	resolvedIDs := make(map[string]struct{}, len(resolved.Tasks))
	for _, t := range resolved.Tasks {
		resolvedIDs[t.ID.String()] = struct{}{}
	}

	// Only responses matching resolved tasks count; stale responses from a
	// content re-author or a level change never inflate the count.
	for id := range state.RespondedTaskIDs() {
		if _, ok := resolvedIDs[id.String()]; ok {
			progress.CompletedCount++
		}
	}

	progress.TotalCount = len(resolved.Tasks)
	if resolved.Test != nil {
		progress.TotalCount++
		if state.TestResult != nil {
			progress.CompletedCount++
			progress.TestCompleted = true
		}
	} else {
		progress.TestCompleted = true
	}

	if progress.TotalCount > 0 {
		progress.Percentage = int(math.Round(100 * float64(progress.CompletedCount) / float64(progress.TotalCount)))
	} else if resolved.Video != nil {
		// Video-only day (legacy Day 0 shape): the video is the whole module.
		if state.VideoCompleted {
			progress.Percentage = 100
		}
	}

	progress.TasksCompleted = progress.CompletedCount >= progress.TotalCount
	videoDone := resolved.Video == nil || state.VideoCompleted
	progress.DayCompleted = progress.TasksCompleted && progress.TestCompleted && videoDone
	return progress
}
