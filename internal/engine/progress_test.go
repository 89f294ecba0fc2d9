package engine

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"

	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/domain/program"
)

func TestReduceCountsDistinctTaskIDs(t *testing.T) {
	caregiverID := uuid.New()
	taskA := makeTask(t, 1, 0, program.KindFreeText)
	taskB := makeTask(t, 1, 1, program.KindRating)
	resolved := &ResolvedDay{Day: 1, Tasks: []types.TaskDefinition{taskA, taskB}}

	responses := respondedTo(t, caregiverID, 1, taskA)
	// Duplicate the same response; a retried write must not double-count.
	responses = append(responses, responses[0])

	state := &DayState{Day: 1, Schedule: unlockedSchedule(), Responses: responses}
	progress := Reduce(state, resolved)
	if progress.CompletedCount != 1 {
		t.Fatalf("CompletedCount = %d, want 1", progress.CompletedCount)
	}
	if progress.TotalCount != 2 {
		t.Fatalf("TotalCount = %d, want 2", progress.TotalCount)
	}
	if progress.Percentage != 50 {
		t.Fatalf("Percentage = %d, want 50", progress.Percentage)
	}
	if progress.TasksCompleted {
		t.Fatal("TasksCompleted should be false at 1/2")
	}
}

func TestReduceIgnoresResponsesOutsideResolvedContent(t *testing.T) {
	caregiverID := uuid.New()
	task := makeTask(t, 2, 0, program.KindChecklist)
	stale := makeTask(t, 2, 1, program.KindChecklist)
	resolved := &ResolvedDay{Day: 2, Tasks: []types.TaskDefinition{task}}

	state := &DayState{
		Day:       2,
		Schedule:  unlockedSchedule(),
		Responses: respondedTo(t, caregiverID, 2, task, stale),
	}
	progress := Reduce(state, resolved)
	if progress.CompletedCount != 1 {
		t.Fatalf("CompletedCount = %d, want 1 (stale response must not count)", progress.CompletedCount)
	}
	if progress.Percentage != 100 {
		t.Fatalf("Percentage = %d, want 100", progress.Percentage)
	}
}

func TestReduceOrderIndependent(t *testing.T) {
	caregiverID := uuid.New()
	tasks := []types.TaskDefinition{
		makeTask(t, 3, 0, program.KindFreeText),
		makeTask(t, 3, 1, program.KindRating),
		makeTask(t, 3, 2, program.KindMoodSelector),
		makeTask(t, 3, 3, program.KindChecklist),
	}
	resolved := &ResolvedDay{Day: 3, Tasks: tasks}
	responses := respondedTo(t, caregiverID, 3, tasks...)

	want := Reduce(&DayState{Day: 3, Schedule: unlockedSchedule(), Responses: responses}, resolved)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]types.TaskResponse, len(responses))
		copy(shuffled, responses)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Reduce(&DayState{Day: 3, Schedule: unlockedSchedule(), Responses: shuffled}, resolved)
		if got != want {
			t.Fatalf("trial %d: Reduce over shuffled responses = %+v, want %+v", trial, got, want)
		}
	}
}

func TestReduceTestCountsAsOneUnit(t *testing.T) {
	caregiverID := uuid.New()
	tasks := []types.TaskDefinition{
		makeTask(t, 1, 0, program.KindFreeText),
		makeTask(t, 1, 1, program.KindRating),
		makeTask(t, 1, 2, program.KindChecklist),
	}
	test := &types.Assessment{ID: uuid.New(), Language: "en"}
	resolved := &ResolvedDay{Day: 1, Tasks: tasks, Test: test}

	// Test submitted, one task answered: 2 of 4 units.
	state := &DayState{
		Day:       1,
		Schedule:  unlockedSchedule(),
		Responses: respondedTo(t, caregiverID, 1, tasks[0]),
		TestResult: &types.AssessmentResult{
			ID: uuid.New(), CaregiverID: caregiverID, AssessmentID: test.ID, Attempt: 1, Current: true,
		},
	}
	progress := Reduce(state, resolved)
	if progress.TotalCount != 4 {
		t.Fatalf("TotalCount = %d, want 4 (3 tasks + 1 test)", progress.TotalCount)
	}
	if progress.CompletedCount != 2 {
		t.Fatalf("CompletedCount = %d, want 2 (test + task A)", progress.CompletedCount)
	}
	if progress.Percentage != 50 {
		t.Fatalf("Percentage = %d, want 50", progress.Percentage)
	}
	if !progress.TestCompleted {
		t.Fatal("TestCompleted should be true")
	}

	// Remaining tasks answered: day complete.
	state.Responses = respondedTo(t, caregiverID, 1, tasks...)
	progress = Reduce(state, resolved)
	if progress.Percentage != 100 || !progress.TasksCompleted || !progress.DayCompleted {
		t.Fatalf("after all tasks: %+v, want 100%% and completed", progress)
	}
}

func TestReduceVideoOnlyDay(t *testing.T) {
	video := &types.DayVideo{ID: uuid.New(), Day: 0, Language: "en", URL: "https://cdn.example.com/day0.mp4"}
	resolved := &ResolvedDay{Day: 0, Video: video}

	notWatched := Reduce(&DayState{Day: 0, Schedule: unlockedSchedule()}, resolved)
	if notWatched.Percentage != 0 || notWatched.DayCompleted {
		t.Fatalf("unwatched video-only day: %+v, want 0%% incomplete", notWatched)
	}

	watched := Reduce(&DayState{Day: 0, Schedule: unlockedSchedule(), VideoCompleted: true}, resolved)
	if watched.Percentage != 100 || !watched.DayCompleted {
		t.Fatalf("watched video-only day: %+v, want 100%% complete", watched)
	}
}

func TestReduceRetakePreservesTaskCompletion(t *testing.T) {
	caregiverID := uuid.New()
	tasks := []types.TaskDefinition{
		makeTask(t, 1, 0, program.KindFreeText),
		makeTask(t, 1, 1, program.KindRating),
	}
	test := &types.Assessment{ID: uuid.New(), Language: "en"}
	resolved := &ResolvedDay{Day: 1, Tasks: tasks, Test: test}
	responses := respondedTo(t, caregiverID, 1, tasks...)

	before := Reduce(&DayState{
		Day: 1, Schedule: unlockedSchedule(), Responses: responses,
		TestResult: &types.AssessmentResult{ID: uuid.New(), Attempt: 1, Current: true},
	}, resolved)

	// Retake in flight: current attempt cleared, task responses untouched.
	during := Reduce(&DayState{
		Day: 1, Schedule: unlockedSchedule(), Responses: responses,
	}, resolved)
	if during.CompletedCount != before.CompletedCount-1 {
		t.Fatalf("retake should only drop the test unit: before=%+v during=%+v", before, during)
	}

	after := Reduce(&DayState{
		Day: 1, Schedule: unlockedSchedule(), Responses: responses,
		TestResult: &types.AssessmentResult{ID: uuid.New(), Attempt: 2, Current: true},
	}, resolved)
	if after != before {
		t.Fatalf("completed retake should restore progress: before=%+v after=%+v", before, after)
	}
}
