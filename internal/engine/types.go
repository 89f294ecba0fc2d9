package engine

import (
	"time"

	"github.com/google/uuid"

	types "github.com/hearthside/carepath-backend/internal/domain"
)

// Gate is the single actionable state of a day module.
type Gate string

const (
	GateLocked     Gate = "locked"
	GateAssessment Gate = "assessment"
	GateVideo      Gate = "video"
	GateTask       Gate = "task"
	GateDone       Gate = "done"
)

// DaySchedule is the admin/time unlock gate for one day.
type DaySchedule struct {
	AdminUnlocked bool
	UnlockAt      *time.Time
}

// Unlocked reports the effective unlock: admin approval AND, when a
// scheduled timestamp is authored, now having reached it.
func (s DaySchedule) Unlocked(now time.Time) bool {
	if !s.AdminUnlocked {
		return false
	}
	if s.UnlockAt == nil {
		return true
	}
	return !now.Before(*s.UnlockAt)
}

// ResolvedDay is the authored content for one (day, level, language) after
// resolution: tasks ordered by authored index with reminder-kind tasks
// split off, plus the optional burden test and lesson video.
type ResolvedDay struct {
	Day       int
	Level     string
	Tasks     []types.TaskDefinition
	Reminders []types.TaskDefinition
	Test      *types.Assessment
	Video     *types.DayVideo
}

// Empty reports whether nothing completable was authored for the day.
func (r *ResolvedDay) Empty() bool {
	return len(r.Tasks) == 0 && r.Test == nil && r.Video == nil
}

// DayState bundles the persisted facts for one caregiver-day. The engine
// computes over it without touching storage.
type DayState struct {
	Day            int
	Schedule       DaySchedule
	VideoCompleted bool
	Responses      []types.TaskResponse
	// TestResult is the current attempt, nil when the test has never been
	// submitted (or a retake is pending).
	TestResult *types.AssessmentResult
}

// RespondedTaskIDs returns the distinct set of answered task IDs.
// Duplicates collapse, which is what makes progress recomputation
// order-independent and idempotent.
func (s *DayState) RespondedTaskIDs() map[uuid.UUID]struct{} {
	ids := make(map[uuid.UUID]struct{}, len(s.Responses))
	for _, r := range s.Responses {
		ids[r.TaskID] = struct{}{}
	}
	return ids
}

// DayProgress is the derived completion view of one day.
type DayProgress struct {
	CompletedCount int  `json:"completed_count"`
	TotalCount     int  `json:"total_count"`
	Percentage     int  `json:"percentage"`
	TasksCompleted bool `json:"tasks_completed"`
	TestCompleted  bool `json:"test_completed"`
	VideoCompleted bool `json:"video_completed"`
	DayCompleted   bool `json:"day_completed"`
}

// Action is the unlock policy's answer: which gate the day is behind and,
// in the task gate, the single active task.
type Action struct {
	Gate         Gate       `json:"gate"`
	ActiveTaskID *uuid.UUID `json:"active_task_id,omitempty"`
}

// DayStanding is one day's contribution to the program aggregate.
type DayStanding struct {
	Day      int
	Unlocked bool
	Progress DayProgress
}

// ProgramSummary is the caregiver-level aggregate.
type ProgramSummary struct {
	OverallProgress int `json:"overall_progress"`
	CurrentDay      int `json:"current_day"`
}
