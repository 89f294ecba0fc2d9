package engine

import (
	"time"

	"github.com/google/uuid"
)

// NextActionable runs the per-day gate machine: locked → assessment →
// video → task → done. Within the task gate exactly one task is active,
// the first in authored order without a response; everything after it is
// not yet shown. That single-active-task rule is a deliberate UX
// constraint and guarantees tasks are attempted in authored order.
func NextActionable(resolved *ResolvedDay, state *DayState, now time.Time) Action {
	if !state.Schedule.Unlocked(now) {
		return Action{Gate: GateLocked}
	}

	// The burden test personalizes the day's content, so it blocks entry
	// into the task list entirely until submitted.
	if resolved.Test != nil && state.TestResult == nil {
		return Action{Gate: GateAssessment}
	}

	if resolved.Video != nil && !state.VideoCompleted {
		return Action{Gate: GateVideo}
	}

	responded := state.RespondedTaskIDs()
	for i := range resolved.Tasks {
		if _, done := responded[resolved.Tasks[i].ID]; !done {
			id := resolved.Tasks[i].ID
			return Action{Gate: GateTask, ActiveTaskID: &id}
		}
	}

	return Action{Gate: GateDone}
}

// CheckTaskSubmittable decides whether a response for taskID may be written
// right now. Re-answering an already answered task is allowed (the write is
// an upsert); jumping ahead of the active task is not.
func CheckTaskSubmittable(resolved *ResolvedDay, state *DayState, taskID uuid.UUID, now time.Time) error {
	found := false
	for i := range resolved.Tasks {
		if resolved.Tasks[i].ID == taskID {
			found = true
			break
		}
	}
	if !found {
		return validationErrf("task %s is not part of day %d for this caregiver", taskID, resolved.Day)
	}

	if _, answered := state.RespondedTaskIDs()[taskID]; answered {
		return nil
	}

	action := NextActionable(resolved, state, now)
	switch action.Gate {
	case GateLocked:
		return staleErrf("day %d is locked", resolved.Day)
	case GateAssessment:
		return staleErrf("day %d requires the burden test before tasks", resolved.Day)
	case GateVideo:
		return staleErrf("day %d requires the lesson video before tasks", resolved.Day)
	case GateTask:
		if action.ActiveTaskID != nil && *action.ActiveTaskID == taskID {
			return nil
		}
		return staleErrf("task %s is not the active task for day %d", taskID, resolved.Day)
	default:
		return staleErrf("day %d has nothing left to submit", resolved.Day)
	}
}
